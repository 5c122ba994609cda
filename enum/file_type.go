package enum

type FileType string

const (
	FileTypeImage    FileType = "IMG"
	FileTypeDocument FileType = "DOC"
)
