package media

import (
	"errors"
	"strings"

	"github.com/famichat/famichat/internal/chat"
)

// Draft is a prepared media payload, ready to hand to the conversation
// store's send path.
type Draft struct {
	Kind       chat.Kind
	ContentRef string
	FileName   string
	MediaType  string
}

var ErrNoFile = errors.New("media: no file selected")

// AttachFile classifies a selected file by its declared media type and
// stores its bytes: image/* becomes an image message, anything else a
// plain file. The returned draft's content reference is session-local.
func AttachFile(blobs *BlobStore, name, mediaType string, data []byte) (Draft, error) {
	if name == "" || data == nil {
		return Draft{}, ErrNoFile
	}
	kind := chat.KindFile
	if strings.HasPrefix(mediaType, "image/") {
		kind = chat.KindImage
	}
	return Draft{
		Kind:       kind,
		ContentRef: blobs.Put(data),
		FileName:   name,
		MediaType:  mediaType,
	}, nil
}
