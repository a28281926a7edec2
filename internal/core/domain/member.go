package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemberIDPrefix is the prefix for generated member IDs.
const MemberIDPrefix = "rmnd-"

// Health is the graduated unreachability state of a member.
//
// Time-driven transitions only ever move forward
// (Suspect → Confirmed → Departed); moving backward (refutation by a
// higher incarnation) happens exclusively through the gossip receive
// path via Roster.Apply.
type Health int

const (
	// Alive means the member is believed reachable.
	Alive Health = iota
	// Suspect means the member failed a probe and is provisionally
	// considered unreachable.
	Suspect
	// Confirmed means the member stayed Suspect past the suspicion
	// timeout and is considered dead.
	Confirmed
	// Departed means the member stayed Confirmed past the departure
	// timeout, or announced its own departure. Terminal; records in
	// this state are kept as tombstones.
	Departed
)

// String returns the string representation of Health.
func (h Health) String() string {
	switch h {
	case Alive:
		return "alive"
	case Suspect:
		return "suspect"
	case Confirmed:
		return "confirmed"
	case Departed:
		return "departed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (h Health) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Health) UnmarshalText(text []byte) error {
	switch string(text) {
	case "alive":
		*h = Alive
	case "suspect":
		*h = Suspect
	case "confirmed":
		*h = Confirmed
	case "departed":
		*h = Departed
	default:
		return ErrUnknownHealth.WithDetails(string(text))
	}
	return nil
}

// Worse reports whether h is a stronger statement of unreachability
// than other. Used for equal-incarnation reconciliation: gossip about
// failure spreads, gossip about health must carry a fresh incarnation.
func (h Health) Worse(other Health) bool {
	return h > other
}

// Member represents a peer in the membership table.
type Member struct {
	// ID is the unique identifier of the peer.
	ID string `json:"id"`

	// Addr is the advertised gossip address, opaque to this core.
	Addr string `json:"addr"`

	// Incarnation disambiguates successive statements about the same
	// member. Higher incarnation always wins during reconciliation.
	Incarnation uint64 `json:"incarnation"`

	// Health is the current unreachability state.
	Health Health `json:"health"`

	// LastTransition is when Health last changed. Expiry timeouts are
	// measured from here, never from a global epoch.
	LastTransition time.Time `json:"last_transition"`
}

// Key returns the membership rumor key for this member.
func (m Member) Key() RumorKey {
	return NewRumorKey(KindMember, m.ID, "")
}

// GenerateMemberID generates a new member ID using ULID.
// Format: rmnd-{ulid_lowercase}, 31 characters total.
func GenerateMemberID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return MemberIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidMemberID checks if a string is a valid generated member ID.
// IDs from foreign clusters may use other formats; the roster accepts
// any non-empty opaque ID, this check is only for IDs we mint.
func IsValidMemberID(id string) bool {
	id = strings.ToLower(id)

	if !strings.HasPrefix(id, MemberIDPrefix) {
		return false
	}

	// rmnd- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}

	ulidPart := strings.ToUpper(id[len(MemberIDPrefix):])
	_, err := ulid.Parse(ulidPart)
	return err == nil
}
