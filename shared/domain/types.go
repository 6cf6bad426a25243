package domain

type (
	ThreadId  = string
	CommentId = string
	ReplyId   = string
	PhotoId   = string

	// Identity is the ownership key of an actor: lower-cased email or stable local id.
	Identity = string
)

type Category string

const (
	CategoryStrategy Category = "strategy"
	CategoryDriver   Category = "driver"
	CategoryFree     Category = "free"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryStrategy, CategoryDriver, CategoryFree:
		return true
	}
	return false
}

// Labels returns the display labels searched by the forum filter.
func (c Category) Labels() []string {
	switch c {
	case CategoryStrategy:
		return []string{"Strategy", "전략"}
	case CategoryDriver:
		return []string{"Driver", "드라이버"}
	case CategoryFree:
		return []string{"Free", "자유"}
	}
	return nil
}

type Session string

const (
	SessionRace       Session = "Race"
	SessionQualifying Session = "Qualifying"
	SessionSprint     Session = "Sprint"
)

func (s Session) Valid() bool {
	switch s {
	case SessionRace, SessionQualifying, SessionSprint:
		return true
	}
	return false
}
