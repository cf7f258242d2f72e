package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/couchcryptid/incident-ingest-service/internal/pipeline"
	"github.com/couchcryptid/incident-ingest-service/internal/workbook"
)

const (
	uploadField = "file"

	// maxMemory is how much of a multipart body is buffered in memory before
	// the rest spills to temporary files. It is not a size limit.
	maxMemory = 32 << 20
)

func (s *Server) handleUploadForm(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, http.StatusOK, "upload.html", nil)
}

// handleUpload responds with the success page as soon as every write has
// been issued, whether or not the store has acknowledged them.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		renderPage(w, http.StatusBadRequest, "error.html", "The upload could not be read as a multipart form.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		renderPage(w, http.StatusBadRequest, "error.html", "No file was attached to the upload.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "error", err)
		renderPage(w, http.StatusBadRequest, "error.html", "The uploaded file could not be read.")
		return
	}

	_, err = s.ingester.Ingest(r.Context(), pipeline.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		var fe *workbook.FormatError
		if errors.As(err, &fe) {
			renderPage(w, http.StatusBadRequest, "error.html", "The file is not a readable spreadsheet. Upload an .xlsx or .csv file.")
			return
		}
		s.logger.Error("ingest failed", "error", err)
		renderPage(w, http.StatusInternalServerError, "error.html", "The upload could not be processed.")
		return
	}

	renderPage(w, http.StatusOK, "success.html", nil)
}

func renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	pages.ExecuteTemplate(w, name, data) //nolint:errcheck // headers already sent
}
