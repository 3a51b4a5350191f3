package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// newMeetLink mints a virtual meeting room URL with an unguessable id.
// The room itself is created lazily by the video frontend on first join.
func newMeetLink(baseURL string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in bad shape anyway
		panic(fmt.Sprintf("rand: %v", err))
	}
	id := base64.RawURLEncoding.EncodeToString(b)
	return fmt.Sprintf("%s/swiftcare-%s", baseURL, id)
}
