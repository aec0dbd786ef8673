// types.go
package uv

// installReport is the part of pip's --report JSON the dry run reads
type installReport struct {
	Install []struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
		RequestedExtras []string `json:"requested_extras"`
		DownloadInfo    struct {
			URL string `json:"url"`
		} `json:"download_info"`
	} `json:"install"`
}

// Config holds adapter settings
type Config struct {
	Executable string // uv binary, defaults to DefaultExecutable
	Debug      bool
}
