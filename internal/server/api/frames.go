package api

import (
	"errors"
	"io"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/painter"
)

// MaxFrameBytes bounds the size of an uploaded snapshot.
const MaxFrameBytes = 8 << 20

// ModeHeader carries the classified mode of a processed snapshot.
const ModeHeader = "X-Airdraw-Mode"

// ErrBadImage is returned by Render for bodies that do not decode to an image.
var ErrBadImage = errors.New("snapshot is not a decodable image")

// Render decodes an encoded snapshot, runs it through the session and
// returns the composited frame as JPEG together with the classified mode.
// A detector failure still yields a rendered frame, with the error.
func Render(s *painter.Session, data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", ErrBadImage
	}
	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, "", ErrBadImage
	}
	defer frame.Close()
	if frame.Empty() {
		return nil, "", ErrBadImage
	}

	res, procErr := s.Process(&frame)
	if errors.Is(procErr, painter.ErrEmptyFrame) {
		return nil, "", ErrBadImage
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, "", err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), res.Mode.String(), procErr
}

// frame handles POST /api/sessions/{id}/frames.
func (h *SessionHandler) frame(w http.ResponseWriter, r *http.Request, s *painter.Session) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxFrameBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Snapshot too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read snapshot")
		return
	}

	out, mode, err := Render(s, data)
	switch {
	case errors.Is(err, ErrBadImage):
		writeError(w, http.StatusBadRequest, "Snapshot is not a JPEG or PNG image")
		return
	case out == nil:
		h.log.WithError(err).Error("Failed to encode frame")
		writeError(w, http.StatusInternalServerError, "Failed to encode frame")
		return
	case err != nil:
		h.log.WithError(err).WithField("session", s.ID()).Warn("Hand detection failed")
		writeError(w, http.StatusBadGateway, "Hand detection failed")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set(ModeHeader, mode)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
