package domain

import (
	"encoding/json"
	"time"
)

// RumorKind identifies a rumor category. Each kind has its own store;
// purges never cross kind boundaries.
type RumorKind int

const (
	// KindMember is a membership fact (health/incarnation statement).
	KindMember RumorKind = iota
	// KindDeparture is an explicit departure announcement.
	KindDeparture
	// KindElection is a leader election ballot.
	KindElection
	// KindUpdate is a configuration-version update.
	KindUpdate
	// KindService is a service presence fact.
	KindService
	// KindServiceConfig is a service configuration blob.
	KindServiceConfig
	// KindServiceFile is a file distributed to a service group.
	KindServiceFile
)

// Kinds lists every rumor kind in a stable order.
var Kinds = []RumorKind{
	KindMember,
	KindDeparture,
	KindElection,
	KindUpdate,
	KindService,
	KindServiceConfig,
	KindServiceFile,
}

// String returns the string representation of RumorKind.
func (k RumorKind) String() string {
	switch k {
	case KindMember:
		return "member"
	case KindDeparture:
		return "departure"
	case KindElection:
		return "election"
	case KindUpdate:
		return "update"
	case KindService:
		return "service"
	case KindServiceConfig:
		return "service-config"
	case KindServiceFile:
		return "service-file"
	default:
		return "unknown"
	}
}

// RumorKey identifies a single rumor instance. Keys are immutable
// values; two keys are equal iff all three fields match, so RumorKey
// is usable directly as a map key.
type RumorKey struct {
	// Kind is the rumor category.
	Kind RumorKind

	// ID is the primary identity: a member ID for membership and
	// departure rumors, a service group for service rumors.
	ID string

	// Qualifier is an optional secondary identity, e.g. the member
	// within a service group. Empty for most kinds.
	Qualifier string
}

// NewRumorKey builds a RumorKey.
func NewRumorKey(kind RumorKind, id, qualifier string) RumorKey {
	return RumorKey{Kind: kind, ID: id, Qualifier: qualifier}
}

// String returns the canonical form kind/id[/qualifier].
func (k RumorKey) String() string {
	if k.Qualifier == "" {
		return k.Kind.String() + "/" + k.ID
	}
	return k.Kind.String() + "/" + k.ID + "/" + k.Qualifier
}

// Payload is implemented by everything an expiring rumor store can
// hold. The encoded form is only used for change detection; the
// content and merge semantics of individual payloads live outside
// this core.
type Payload interface {
	Encode() []byte
}

// DepartureNotice announces that a member has left the cluster.
type DepartureNotice struct {
	MemberID string `json:"member_id"`
	LeftAt   int64  `json:"left_at"`
}

// Encode implements Payload.
func (p DepartureNotice) Encode() []byte { return mustEncode(p) }

// Ballot carries the state of a leader election for a service group.
type Ballot struct {
	Group  string `json:"group"`
	Term   uint64 `json:"term"`
	Leader string `json:"leader"`
}

// Encode implements Payload.
func (p Ballot) Encode() []byte { return mustEncode(p) }

// ConfigVersion announces a new version of decentralized configuration.
type ConfigVersion struct {
	Group   string `json:"group"`
	Version uint64 `json:"version"`
}

// Encode implements Payload.
func (p ConfigVersion) Encode() []byte { return mustEncode(p) }

// ServiceFact states that a member runs a service in a group.
type ServiceFact struct {
	Group    string `json:"group"`
	MemberID string `json:"member_id"`
	Body     []byte `json:"body"`
}

// Encode implements Payload.
func (p ServiceFact) Encode() []byte { return mustEncode(p) }

// ServiceConfigBlob is a configuration blob for a service group.
type ServiceConfigBlob struct {
	Group       string `json:"group"`
	Incarnation uint64 `json:"incarnation"`
	Body        []byte `json:"body"`
}

// Encode implements Payload.
func (p ServiceConfigBlob) Encode() []byte { return mustEncode(p) }

// ServiceFileBlob is a file distributed to a service group.
type ServiceFileBlob struct {
	Group       string `json:"group"`
	Filename    string `json:"filename"`
	Incarnation uint64 `json:"incarnation"`
	Body        []byte `json:"body"`
}

// Encode implements Payload.
func (p ServiceFileBlob) Encode() []byte { return mustEncode(p) }

// MemberFact is a membership statement held in rumor form.
type MemberFact struct {
	Member Member `json:"member"`
}

// Encode implements Payload.
func (p MemberFact) Encode() []byte { return mustEncode(p) }

func mustEncode(v any) []byte {
	// All payload types are plain structs of encodable fields; a
	// marshal failure here is a programming error.
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// ExpireAt computes an absolute expiry for a rumor created now with
// the given time-to-live. A zero ttl yields the zero time, which the
// stores treat as "never expires".
func ExpireAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
