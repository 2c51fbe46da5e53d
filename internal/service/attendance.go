package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/model"
	"geo-attendance/internal/store"
)

// DisplayZone is the fixed UTC+05:30 offset used when rendering times to
// managers and when interpreting calendar dates.
var DisplayZone = time.FixedZone("IST", 5*60*60+30*60)

// FormatDisplay renders t as RFC 3339 in DisplayZone.
func FormatDisplay(t time.Time) string {
	return t.In(DisplayZone).Format(time.RFC3339)
}

type AttendanceService struct {
	checkins   CheckinStore
	checkouts  CheckoutStore
	employees  EmployeeStore
	locator    Locator
	photos     PhotoUploader
	reviewLock bool
	now        func() time.Time
}

func NewAttendanceService(checkins CheckinStore, checkouts CheckoutStore, employees EmployeeStore, locator Locator, photos PhotoUploader, reviewLock bool) *AttendanceService {
	return &AttendanceService{
		checkins:   checkins,
		checkouts:  checkouts,
		employees:  employees,
		locator:    locator,
		photos:     photos,
		reviewLock: reviewLock,
		now:        time.Now,
	}
}

// CheckinRequest is a check-in submission. Lat and Lng are the raw form
// values so that missing and malformed input can be told apart.
type CheckinRequest struct {
	EmployeeID   string
	EmployeeCode string
	Lat          string
	Lng          string
	Photo        []byte
	PhotoName    string
}

// Submit records a pending check-in if the coordinates fall inside an
// office geofence.
func (s *AttendanceService) Submit(ctx context.Context, req CheckinRequest) (*model.Checkin, error) {
	latRaw, lngRaw := strings.TrimSpace(req.Lat), strings.TrimSpace(req.Lng)
	if latRaw == "" || lngRaw == "" {
		return nil, ErrLocationRequired
	}
	if len(req.Photo) == 0 {
		return nil, ErrPhotoRequired
	}
	lat, lng, err := parseCoordinates(latRaw, lngRaw)
	if err != nil {
		return nil, err
	}
	employeeID, err := bson.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		return nil, ErrInvalidIdentity
	}

	loc, err := s.locator.Locate(ctx, lat, lng)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("locate: %w", err))
	}
	if !loc.Inside {
		return nil, ErrOutOfRange
	}

	now := s.now()
	watermark := fmt.Sprintf("%s | %s | %s,%s",
		req.EmployeeCode, now.In(DisplayZone).Format("02/01/2006 15:04:05"), latRaw, lngRaw)
	photoURL, err := s.photos.UploadPhoto(ctx, req.Photo, req.PhotoName, watermark)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	record := &model.Checkin{
		EmployeeID: employeeID,
		Lat:        lat,
		Lng:        lng,
		PhotoURL:   photoURL,
		OfficeName: loc.Office.Name,
		Status:     model.CheckinStatusPending,
		Timestamp:  now,
	}
	if err := s.checkins.Create(ctx, record); err != nil {
		// The photo is already stored; it stays orphaned.
		return nil, apperr.Internal(fmt.Errorf("create checkin: %w", err))
	}

	log.Printf("Check-in %s by %s at %s (%.0fm)", record.ID.Hex(), req.EmployeeCode, loc.Office.Name, loc.Distance)
	return record, nil
}

func parseCoordinates(latRaw, lngRaw string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, 0, ErrInvalidLocation
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return 0, 0, ErrInvalidLocation
	}
	return lat, lng, nil
}

// Review sets a check-in to approved or rejected. Unless the review lock
// is on, an already reviewed record is overwritten.
func (s *AttendanceService) Review(ctx context.Context, id, decision, comments, reviewerID string) (*model.Checkin, error) {
	status := model.CheckinStatus(decision)
	if !status.IsDecision() {
		return nil, ErrInvalidDecision
	}

	record, err := s.getCheckin(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.reviewLock && record.Status != model.CheckinStatusPending {
		return nil, ErrAlreadyReviewed
	}

	now := s.now()
	record.Status = status
	record.ReviewComments = comments
	record.ReviewedAt = &now
	record.ReviewedBy = nil
	if reviewer, err := bson.ObjectIDFromHex(reviewerID); err == nil {
		record.ReviewedBy = &reviewer
	}

	if err := s.checkins.Update(ctx, record); err != nil {
		return nil, apperr.Internal(fmt.Errorf("update checkin: %w", err))
	}
	log.Printf("Check-in %s %s by %s", record.ID.Hex(), status, reviewerID)
	return record, nil
}

// Checkout closes an approved check-in. The guards run in order and the
// first failing one decides the error.
func (s *AttendanceService) Checkout(ctx context.Context, employeeID, checkinID string) (*model.Checkout, error) {
	record, err := s.getCheckin(ctx, checkinID)
	if err != nil {
		return nil, err
	}
	if record.EmployeeID.Hex() != employeeID {
		return nil, ErrEmployeeMismatch
	}
	if record.Status != model.CheckinStatusApproved {
		return nil, ErrNotApproved
	}
	existing, err := s.checkouts.GetByCheckin(ctx, record.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, ErrAlreadyCheckedOut
	}

	checkout := &model.Checkout{
		EmployeeID: record.EmployeeID,
		CheckinID:  record.ID,
		Timestamp:  s.now(),
	}
	if err := s.checkouts.Create(ctx, checkout); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyCheckedOut
		}
		return nil, apperr.Internal(fmt.Errorf("create checkout: %w", err))
	}
	log.Printf("Checkout %s for check-in %s", checkout.ID.Hex(), record.ID.Hex())
	return checkout, nil
}

// LatestStatus returns the status of the employee's newest check-in.
func (s *AttendanceService) LatestStatus(ctx context.Context, employeeID string) (model.CheckinStatus, error) {
	id, err := bson.ObjectIDFromHex(employeeID)
	if err != nil {
		return "", ErrInvalidIdentity
	}
	record, err := s.checkins.Latest(ctx, id)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if record == nil {
		return "", ErrNoCheckin
	}
	return record.Status, nil
}

func (s *AttendanceService) getCheckin(ctx context.Context, id string) (*model.Checkin, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCheckinNotFound
	}
	record, err := s.checkins.GetByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if record == nil {
		return nil, ErrCheckinNotFound
	}
	return record, nil
}
