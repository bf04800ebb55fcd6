package source

// FileID identifies a source file inside a Table.
type FileID uint32

// NoFile marks the absence of a file reference.
const NoFile FileID = ^FileID(0)
