package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"arogyakrishi/internal/httputil"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/storage"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// multipartOverhead is allowed on top of the file limit for boundaries and
// the other form fields.
const multipartOverhead = 1 << 20

// optionalFloat parses an optional numeric query or form value.
func optionalFloat(raw, name string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// coordinates reads the lat and lng query parameters.
func coordinates(r *http.Request) (lat, lng *float64, err error) {
	q := r.URL.Query()
	if lat, err = optionalFloat(q.Get("lat"), "lat"); err != nil {
		return nil, nil, err
	}
	if lng, err = optionalFloat(q.Get("lng"), "lng"); err != nil {
		return nil, nil, err
	}
	return lat, lng, nil
}

// parseMultipart bounds the request body and parses it. It writes the error
// response itself and reports whether the handler may continue.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxFileSize int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteDomainError(w, model.ErrFileTooLarge)
			return false
		}
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return false
	}
	return true
}

// uploadedFile is one file part read fully into memory.
type uploadedFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// readFormFile reads the named file part, rejecting parts above maxSize.
func readFormFile(r *http.Request, field string, maxSize int64) (*uploadedFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%s file is required", field)
		}
		return nil, err
	}
	defer file.Close()

	data, err := storage.ReadLimited(file, maxSize)
	if err != nil {
		return nil, err
	}
	return &uploadedFile{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

// writeUploadError maps readFormFile failures.
func writeUploadError(w http.ResponseWriter, err error) {
	if httputil.WriteDomainError(w, err) {
		return
	}
	httputil.WriteBadRequest(w, err.Error())
}
