package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/model"
)

// EmployeeSummary is the employee part of a populated check-in or checkout.
type EmployeeSummary struct {
	ID         bson.ObjectID `json:"id"`
	EmployeeID string        `json:"employeeId"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Email      string        `json:"email,omitempty"`
}

func summarize(e *model.Employee) *EmployeeSummary {
	if e == nil {
		return nil
	}
	return &EmployeeSummary{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
	}
}

// CheckinView is a check-in with its employee populated. Employee is nil
// when the worker record no longer exists.
type CheckinView struct {
	*model.Checkin
	Employee *EmployeeSummary `json:"employee"`
}

type CheckinRef struct {
	ID         bson.ObjectID `json:"id"`
	Timestamp  string        `json:"timestamp"`
	OfficeName string        `json:"officeName,omitempty"`
}

// CheckoutView is a checkout as shown to managers. Timestamps are
// rendered in DisplayZone.
type CheckoutView struct {
	ID        bson.ObjectID    `json:"id"`
	Employee  *EmployeeSummary `json:"employee"`
	Checkin   *CheckinRef      `json:"checkin"`
	Timestamp string           `json:"timestamp"`
}

// Pending lists check-ins awaiting review, newest first.
func (s *AttendanceService) Pending(ctx context.Context) ([]CheckinView, error) {
	records, err := s.checkins.ListByStatus(ctx, []model.CheckinStatus{model.CheckinStatusPending}, nil, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.populate(ctx, records)
}

// History lists reviewed check-ins, newest first. A non-empty date
// (YYYY-MM-DD) limits the list to that calendar day in DisplayZone.
func (s *AttendanceService) History(ctx context.Context, date string) ([]CheckinView, error) {
	var from, to *time.Time
	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, DisplayZone)
		if err != nil {
			return nil, ErrInvalidDate
		}
		next := day.AddDate(0, 0, 1)
		from, to = &day, &next
	}

	statuses := []model.CheckinStatus{model.CheckinStatusApproved, model.CheckinStatusRejected}
	records, err := s.checkins.ListByStatus(ctx, statuses, from, to)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.populate(ctx, records)
}

func (s *AttendanceService) populate(ctx context.Context, records []*model.Checkin) ([]CheckinView, error) {
	ids := make([]bson.ObjectID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.EmployeeID)
	}
	employees, err := s.employees.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("populate employees: %w", err))
	}

	views := make([]CheckinView, 0, len(records))
	for _, r := range records {
		views = append(views, CheckinView{Checkin: r, Employee: summarize(employees[r.EmployeeID])})
	}
	return views, nil
}

// Checkouts lists checkouts newest first, optionally bounded by
// [from, to). Either bound may be nil.
func (s *AttendanceService) Checkouts(ctx context.Context, from, to *time.Time) ([]CheckoutView, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return nil, ErrInvalidRange
	}
	records, err := s.checkouts.List(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	employeeIDs := make([]bson.ObjectID, 0, len(records))
	checkinIDs := make([]bson.ObjectID, 0, len(records))
	for _, r := range records {
		employeeIDs = append(employeeIDs, r.EmployeeID)
		checkinIDs = append(checkinIDs, r.CheckinID)
	}
	employees, err := s.employees.GetByIDs(ctx, employeeIDs)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("populate employees: %w", err))
	}
	checkins, err := s.checkins.GetByIDs(ctx, checkinIDs)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("populate checkins: %w", err))
	}

	views := make([]CheckoutView, 0, len(records))
	for _, r := range records {
		v := CheckoutView{
			ID:        r.ID,
			Employee:  summarize(employees[r.EmployeeID]),
			Timestamp: FormatDisplay(r.Timestamp),
		}
		if c, ok := checkins[r.CheckinID]; ok {
			v.Checkin = &CheckinRef{ID: c.ID, Timestamp: FormatDisplay(c.Timestamp), OfficeName: c.OfficeName}
		}
		views = append(views, v)
	}
	return views, nil
}
