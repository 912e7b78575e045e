package media_test

import (
	"strings"
	"testing"

	"github.com/spec-kit/civic-report-service/internal/media"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

func TestStorageKeyAcceptsAllowedExtensions(t *testing.T) {
	cases := []struct {
		kind     media.Kind
		filename string
	}{
		{media.KindPhoto, "street.jpg"},
		{media.KindPhoto, "street.JPEG"},
		{media.KindAvatar, "me.png"},
		{media.KindAudio, "noise.mp3"},
		{media.KindAudio, "noise.webm"},
		{media.KindVideo, "clip.mp4"},
		{media.KindVideo, "clip.mkv"},
	}
	for _, tc := range cases {
		key, err := media.StorageKey(tc.kind, tc.filename)
		if err != nil {
			t.Fatalf("StorageKey(%s, %s): %v", tc.kind, tc.filename, err)
		}
		if !strings.HasPrefix(key, string(tc.kind)+"_") {
			t.Fatalf("expected key prefixed with %s_, got %q", tc.kind, key)
		}
		idx := strings.LastIndexByte(tc.filename, '.')
		wantExt := strings.ToLower(tc.filename[idx+1:])
		if !strings.HasSuffix(key, "."+wantExt) {
			t.Fatalf("expected key to keep extension %q, got %q", wantExt, key)
		}
	}
}

func TestStorageKeyRejectsDisallowedExtensions(t *testing.T) {
	cases := []struct {
		kind     media.Kind
		filename string
	}{
		{media.KindPhoto, "payload.exe"},
		{media.KindPhoto, "noextension"},
		{media.KindAudio, "clip.mp4"},
		{media.KindVideo, "song.mp3"},
		{media.KindAvatar, "me.svg"},
	}
	for _, tc := range cases {
		_, err := media.StorageKey(tc.kind, tc.filename)
		if err == nil {
			t.Fatalf("StorageKey(%s, %s): expected error", tc.kind, tc.filename)
		}
		if code := apperrors.CodeOf(err); code != "INVALID_ATTACHMENT_TYPE" {
			t.Fatalf("expected INVALID_ATTACHMENT_TYPE, got %s", code)
		}
	}
}

func TestStorageKeysAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key, err := media.StorageKey(media.KindPhoto, "same.jpg")
		if err != nil {
			t.Fatalf("StorageKey: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate storage key %q", key)
		}
		seen[key] = struct{}{}
	}
}
