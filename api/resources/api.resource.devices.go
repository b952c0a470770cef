// FilePath: api/resources/api.resource.devices.go
package resources

import (
	"net/http"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/api/middleware"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/hubservice"
	"github.com/agrimesh/irrihub/internal/monitoring"
)

// DeviceHandlers encapsulates the device-related HTTP handlers
type DeviceHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List devices
// @Description List the caller's devices with computed online status and latest cached reading
// @Tags devices
// @Produce json
// @Success 200 {array} hubservice.DeviceView
// @Failure 401 {object} errors.APIError
// @Router /devices [get]
// @Security GatewayAuth
func (h *DeviceHandlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	start := time.Now()
	defer func() {
		monitoring.QueryDuration.WithLabelValues("devices").Observe(time.Since(start).Seconds())
	}()

	userID := middleware.UserID(r.Context())
	if userID == "" {
		respondWithError(w, requestID, errors.NewAuthError("missing user identity", nil))
		return
	}

	devices, err := h.hubservice.ListDevices(r.Context(), userID)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	respondWithList(w, http.StatusOK, devices, len(devices))
}
