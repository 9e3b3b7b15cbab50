package domain

// to iterate thru layers: handler -> service -> storage
type (
	FileId       = string
	Subject      = string
	FileKind     = string
	UploaderRole = string
	CommentId    = string
	MessageId    = string
	ConnectionId = string
	DisplayName  = string
)

const (
	KindPdf   FileKind = "pdf"
	KindWord  FileKind = "word"
	KindImage FileKind = "image"
	KindVideo FileKind = "video"
	KindOther FileKind = "other"
)

const (
	RoleStudent UploaderRole = "طالب"
	RoleTeacher UploaderRole = "معلم"
)
