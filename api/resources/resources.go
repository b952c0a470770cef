// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/hubservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Devices   *DeviceHandlers
	Analytics *AnalyticsHandlers

	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Devices:   &DeviceHandlers{hubservice: svc},
		Analytics: &AnalyticsHandlers{hubservice: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}

// queryDecoder maps URL query values onto filter structs. Unknown keys are
// ignored so dashboard clients can send extra parameters freely.
var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// envelope is the uniform response shape. Count is only set for list
// payloads.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondWithData(w http.ResponseWriter, code int, data interface{}) {
	respondWithJSON(w, code, envelope{Success: true, Data: data})
}

func respondWithList(w http.ResponseWriter, code int, data interface{}, count int) {
	respondWithJSON(w, code, envelope{Success: true, Data: data, Count: &count})
}

func respondWithMessage(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, envelope{Success: true, Message: message})
}

func respondWithError(w http.ResponseWriter, requestID string, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.NewInternalError("internal server error", err)
	}
	apiErr.WithRequestID(requestID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	json.NewEncoder(w).Encode(envelope{Success: false, Message: apiErr.Message})
	nuts.L.Errorf("[API] %s", apiErr.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
