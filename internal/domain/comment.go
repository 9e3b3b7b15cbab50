package domain

import "time"

// Comment belongs to a FileRecord; the collection is a map keyed by file id,
// so the owning id is not duplicated inside the record. Comments against an
// unknown file id are accepted (the coupling is intentionally loose) and are
// destroyed en masse when the owning file is deleted.
type Comment struct {
	Id        CommentId `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentThreads is the comments.json layout: file id -> comments in append order.
type CommentThreads = map[FileId][]Comment
