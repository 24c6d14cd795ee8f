package guard

import "github.com/iov-one/testament"

// RegisterQuery exposes guards under "/guards" and "/guards/safe".
func RegisterQuery(qr testament.QueryRouter) {
	NewBucket().Register("guards", qr)
}
