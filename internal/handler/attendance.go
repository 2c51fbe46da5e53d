package handler

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/model"
	"geo-attendance/internal/service"
)

// maxPhotoBytes bounds the check-in photo read into memory.
const maxPhotoBytes = 10 << 20

type AttendanceHandler struct {
	svc *service.AttendanceService
}

func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// HandleCheckin accepts a multipart form with lat, lng and photo.
func (h *AttendanceHandler) HandleCheckin(c *gin.Context) {
	claims := claimsFrom(c)

	var (
		photo []byte
		name  string
	)
	if fh, err := c.FormFile("photo"); err == nil {
		if fh.Size > maxPhotoBytes {
			writeError(c, service.ErrPhotoTooLarge)
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, apperr.Internal(err))
			return
		}
		photo, err = io.ReadAll(io.LimitReader(f, maxPhotoBytes))
		f.Close()
		if err != nil {
			writeError(c, apperr.Internal(err))
			return
		}
		name = fh.Filename
	}

	record, err := h.svc.Submit(c.Request.Context(), service.CheckinRequest{
		EmployeeID:   claims.ID,
		EmployeeCode: claims.EmployeeID,
		Lat:          c.PostForm("lat"),
		Lng:          c.PostForm("lng"),
		Photo:        photo,
		PhotoName:    name,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   message(c, "checkin.submitted", map[string]any{"Office": record.OfficeName}),
		"photoUrl":  record.PhotoURL,
		"checkinId": record.ID.Hex(),
	})
}

func (h *AttendanceHandler) HandleStatus(c *gin.Context) {
	status, err := h.svc.LatestStatus(c.Request.Context(), claimsFrom(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *AttendanceHandler) HandlePending(c *gin.Context) {
	views, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type reviewRequest struct {
	Status         string `json:"status"`
	ReviewComments string `json:"reviewComments"`
}

func (h *AttendanceHandler) HandleReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}

	claims := claimsFrom(c)
	record, err := h.svc.Review(c.Request.Context(), c.Param("id"), req.Status, req.ReviewComments, claims.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message(c, "checkin.reviewed", map[string]any{"Status": record.Status}),
		"checkin": record,
	})
}

func (h *AttendanceHandler) HandleHistory(c *gin.Context) {
	views, err := h.svc.History(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type checkoutRequest struct {
	EmployeeID string `json:"employeeId"`
	CheckinID  string `json:"checkinId"`
}

// HandleCheckout closes a check-in. Employees always act for themselves;
// managers and admins may name the employee.
func (h *AttendanceHandler) HandleCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("request.invalid_body"))
		return
	}

	claims := claimsFrom(c)
	employeeID := req.EmployeeID
	if claims.Role == model.RoleEmployee {
		if employeeID != "" && employeeID != claims.ID {
			writeError(c, service.ErrEmployeeMismatch)
			return
		}
		employeeID = claims.ID
	}
	if employeeID == "" || req.CheckinID == "" {
		writeError(c, service.ErrCheckoutFields)
		return
	}

	checkout, err := h.svc.Checkout(c.Request.Context(), employeeID, req.CheckinID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  message(c, "checkout.recorded", nil),
		"checkout": checkout,
	})
}

// HandleListCheckouts accepts optional RFC 3339 from and to bounds.
func (h *AttendanceHandler) HandleListCheckouts(c *gin.Context) {
	from, err := parseBound(c.Query("from"))
	if err != nil {
		writeError(c, service.ErrInvalidRange)
		return
	}
	to, err := parseBound(c.Query("to"))
	if err != nil {
		writeError(c, service.ErrInvalidRange)
		return
	}

	views, err := h.svc.Checkouts(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func parseBound(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		log.Printf("Rejected checkout bound %q: %v", v, err)
		return nil, err
	}
	return &t, nil
}
