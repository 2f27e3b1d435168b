package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// URL builds the gravatar image URL for an email: 200px, pg-rated
// content, "mystery man" fallback. The hash input is the trimmed,
// lowercased address per the gravatar spec.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}
