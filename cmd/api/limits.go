package main

import "pdfquiz/internal/config"

// multipartOverhead covers boundaries, part headers and the form fields sent with the files.
const multipartOverhead = 1 << 20

// uploadBodyLimit is the request body cap for an upload of MaxFiles files of MaxFileBytes
// each. Zero leaves fiber's default in place.
func uploadBodyLimit(cfg config.UploadConfig) int {
	if cfg.MaxFileBytes <= 0 {
		return 0
	}
	return int(cfg.MaxFileBytes)*max(cfg.MaxFiles, 1) + multipartOverhead
}
