package putio

// File is one entry from the put.io files API. Folders report a zero size and
// file_type "FOLDER".
type File struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	FileType string `json:"file_type"`
	ParentID int64  `json:"parent_id"`
}

// IsFolder reports whether the entry is a folder.
func (f File) IsFolder() bool { return f.FileType == "FOLDER" }

// AccountInfo is the subset of account/info the migrator cares about.
type AccountInfo struct {
	Username string `json:"username"`
	Mail     string `json:"mail"`
	Disk     struct {
		Avail int64 `json:"avail"`
		Used  int64 `json:"used"`
		Size  int64 `json:"size"`
	} `json:"disk"`
}

type accountResponse struct {
	Info AccountInfo `json:"info"`
}

type listResponse struct {
	Files  []File `json:"files"`
	Parent File   `json:"parent"`
}

type fileResponse struct {
	File File `json:"file"`
}

type downloadResponse struct {
	URL string `json:"url"`
}
