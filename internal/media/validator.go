package media

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

// Kind identifies what an uploaded attachment is used for.
type Kind string

const (
	KindPhoto  Kind = "photo"
	KindAudio  Kind = "audio"
	KindVideo  Kind = "video"
	KindAvatar Kind = "avatar"
)

var allowedExtensions = map[Kind]map[string]struct{}{
	KindPhoto:  extSet("jpg", "jpeg", "png", "gif", "bmp"),
	KindAvatar: extSet("jpg", "jpeg", "png", "gif", "bmp"),
	KindAudio:  extSet("mp3", "wav", "ogg", "webm"),
	KindVideo:  extSet("mp4", "webm", "mov", "avi", "mkv"),
}

func extSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

// StorageKey validates the declared filename against the kind's allow-list
// and returns a collision-free storage key carrying the original extension,
// e.g. "photo_<uuid>.jpg". Pure validation; no bytes are touched.
func StorageKey(kind Kind, filename string) (string, error) {
	ext, ok := extension(filename)
	if !ok {
		return "", apperrors.NewInvalidAttachmentType(string(kind), filename)
	}
	if _, allowed := allowedExtensions[kind][ext]; !allowed {
		return "", apperrors.NewInvalidAttachmentType(string(kind), filename)
	}
	return string(kind) + "_" + uuid.NewString() + "." + ext, nil
}

func extension(filename string) (string, bool) {
	idx := strings.LastIndexByte(filename, '.')
	if idx <= 0 || idx == len(filename)-1 {
		return "", false
	}
	return strings.ToLower(filename[idx+1:]), true
}
