package identity

import (
	"encoding/hex"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// ApplicationID derives a stable hexadecimal identifier from the application
// base path and name. The derivation is deterministic, not collision-free;
// callers needing global uniqueness must configure an explicit ID.
func ApplicationID(basePath, name string) string {
	key := "go-appkit:app:" + strings.TrimSpace(basePath) + ":" + strings.TrimSpace(name)
	uid := deterministicUUID(key)
	return hex.EncodeToString(uid[:])
}

// deterministicUUID derives a UUID from a stable key using go-hashid, falling
// back to a SHA1 name UUID when derivation fails.
func deterministicUUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}
