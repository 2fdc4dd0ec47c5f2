package enums

import "fmt"

// MediaKind defines where the stored object is used.
type MediaKind string

const (
	MediaKindPostImage  MediaKind = "post_image"
	MediaKindAvatar     MediaKind = "avatar"
	MediaKindMovieThumb MediaKind = "movie_thumb"
	MediaKindMusicThumb MediaKind = "music_thumb"
	MediaKindMusicAudio MediaKind = "music_audio"
)

var validMediaKinds = []MediaKind{
	MediaKindPostImage,
	MediaKindAvatar,
	MediaKindMovieThumb,
	MediaKindMusicThumb,
	MediaKindMusicAudio,
}

// String returns the literal string for the kind.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the kind is known.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
