package http

import (
	"io"
	"net/http"
)

const helpText = `ISS ephemeris API

  GET    /                          full dataset, re-fetched from the upstream feed
  GET    /epochs                    all epoch strings
  GET    /epochs?limit=N&offset=M   windowed epoch strings
  GET    /epochs/<epoch>            state vector for one epoch
  GET    /epochs/<epoch>/speed      scalar speed for one epoch
  GET    /epochs/<epoch>/location   latitude, longitude, altitude and place for one epoch
  GET    /now                       state nearest to the current time
  GET    /comment                   comment lines from the source document
  GET    /header                    header block from the source document
  GET    /metadata                  metadata block from the source document
  GET    /help                      this text
  POST   /post-data                 re-fetch the dataset from the upstream feed
  DELETE /delete-data               remove the in-memory dataset

Epochs use the day-of-year form YYYY-DDDThh:mm:ss[.fff]Z:

  curl localhost:8080/epochs/2024-046T12:00:00.000Z/speed
`

func (s *Server) handleHelp(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, helpText) //nolint:errcheck // best-effort static text
}
