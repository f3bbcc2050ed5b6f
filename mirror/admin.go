package mirror

import (
	"context"
	"encoding/base64"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/model"
)

// ErrAccessDenied is returned by AdminLogin when the gate denies the password.
var ErrAccessDenied = errors.New(gate.DeniedMessage)

// ErrNoPassword is returned by AdminLogin when no password was submitted.
var ErrNoPassword = errors.New("no password submitted")

// AdminLogin checks a password against the local admin gate.
func (m *Mirror) AdminLogin(_ context.Context, password string) (*model.LoginResult, error) {
	switch m.gate.Check(password) {
	case gate.Granted:
		return &model.LoginResult{Success: true, Token: gate.Token}, nil
	case gate.Denied:
		return nil, ErrAccessDenied
	default:
		return nil, ErrNoPassword
	}
}

// UploadImage stands in for the upload endpoint by embedding the image in a data URL. Nothing is stored.
func (m *Mirror) UploadImage(_ context.Context, filename string, content []byte) (*model.Upload, error) {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	url := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(content)
	stored := strconv.FormatInt(m.now().UnixMilli(), 10) + filepath.Ext(filename)

	return &model.Upload{URL: url, Filename: stored}, nil
}
