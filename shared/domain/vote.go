package domain

type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

func (k VoteKind) Valid() bool {
	return k == VoteLike || k == VoteDislike
}

// VoteState is one actor's vote on one target. Like and Dislike are never both true.
type VoteState struct {
	Like    bool `json:"like"`
	Dislike bool `json:"dislike"`
}

// Toggle applies a vote of the given kind and returns the new state together
// with the net change each aggregate counter must receive.
func (v VoteState) Toggle(kind VoteKind) (next VoteState, likeDelta, dislikeDelta int64) {
	switch kind {
	case VoteLike:
		next = VoteState{Like: !v.Like}
	case VoteDislike:
		next = VoteState{Dislike: !v.Dislike}
	default:
		return v, 0, 0
	}
	return next, boolDelta(next.Like, v.Like), boolDelta(next.Dislike, v.Dislike)
}

func (v VoteState) Empty() bool {
	return !v.Like && !v.Dislike
}

func boolDelta(now, before bool) int64 {
	var d int64
	if now {
		d++
	}
	if before {
		d--
	}
	return d
}

// VoteLedger maps actor identity -> target id -> vote state.
type VoteLedger map[Identity]map[string]VoteState

// VoteResult is returned by vote operations.
type VoteResult struct {
	State        VoteState `json:"state"`
	LikeCount    int64     `json:"likeCount"`
	DislikeCount int64     `json:"dislikeCount"`
}
