package keyframe

import "errors"

var (
	ErrNoTracks          = errors.New("timeline has no tracks")
	ErrNoKeyframes       = errors.New("track has no keyframes")
	ErrDuration          = errors.New("keyframe duration must be positive")
	ErrSpringMass        = errors.New("spring mass must be positive")
	ErrSpringStiffness   = errors.New("spring stiffness must be positive")
	ErrUnstableSpring    = errors.New("spring does not decay")
	ErrDuplicateProperty = errors.New("property already has a track")
	ErrNilAccessor       = errors.New("property accessor is nil")
	ErrKind              = errors.New("unknown keyframe kind")
)
