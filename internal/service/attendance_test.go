package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/geofence"
	"geo-attendance/internal/model"
	"geo-attendance/internal/store/memstore"
)

var hq = model.Office{Name: "HQ", Lat: 12.9716, Lng: 77.5946}

type fakeUploader struct {
	mu         sync.Mutex
	watermarks []string
	err        error
}

func (f *fakeUploader) UploadPhoto(_ context.Context, photo []byte, filename, watermark string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.watermarks = append(f.watermarks, watermark)
	return "https://media.test/checkins/" + filename, nil
}

type failingDirectory struct{}

func (failingDirectory) Offices(context.Context) ([]model.Office, error) {
	return nil, errors.New("directory unavailable")
}

type fixture struct {
	svc       *AttendanceService
	checkins  *memstore.CheckinStore
	checkouts *memstore.CheckoutStore
	employees *memstore.EmployeeStore
	uploader  *fakeUploader
	worker    *model.Employee
}

func newFixture(t *testing.T, reviewLock bool) *fixture {
	t.Helper()
	f := &fixture{
		checkins:  memstore.NewCheckinStore(),
		checkouts: memstore.NewCheckoutStore(),
		employees: memstore.NewEmployeeStore(),
		uploader:  &fakeUploader{},
	}
	f.worker = &model.Employee{
		EmployeeID: "EMP001",
		FirstName:  "Asha",
		LastName:   "Rao",
		Email:      "asha@example.com",
		Phone:      "9000000001",
		Role:       model.RoleEmployee,
	}
	if err := f.employees.Create(context.Background(), f.worker); err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	locator := geofence.NewEvaluator(geofence.NewStaticDirectory([]model.Office{hq}), 250)
	f.svc = NewAttendanceService(f.checkins, f.checkouts, f.employees, locator, f.uploader, reviewLock)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 5, 4, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) submit(t *testing.T) *model.Checkin {
	t.Helper()
	c, err := f.svc.Submit(context.Background(), CheckinRequest{
		EmployeeID:   f.worker.ID.Hex(),
		EmployeeCode: f.worker.EmployeeID,
		Lat:          "12.9716",
		Lng:          "77.5946",
		Photo:        []byte("jpeg"),
		PhotoName:    "selfie.jpg",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return c
}

func (f *fixture) approve(t *testing.T, id bson.ObjectID) {
	t.Helper()
	if _, err := f.svc.Review(context.Background(), id.Hex(), "approved", "", "manager"); err != nil {
		t.Fatalf("Review: %v", err)
	}
}

func TestSubmitCreatesPendingCheckin(t *testing.T) {
	f := newFixture(t, false)
	c := f.submit(t)

	if c.Status != model.CheckinStatusPending {
		t.Errorf("Status = %q, want pending", c.Status)
	}
	if c.OfficeName != "HQ" {
		t.Errorf("OfficeName = %q, want HQ", c.OfficeName)
	}
	if c.PhotoURL == "" {
		t.Error("PhotoURL is empty")
	}
	if c.ReviewComments != "" {
		t.Errorf("ReviewComments = %q, want empty", c.ReviewComments)
	}

	want := "EMP001 | 05/03/2024 09:30:00 | 12.9716,77.5946"
	if len(f.uploader.watermarks) != 1 || f.uploader.watermarks[0] != want {
		t.Errorf("watermarks = %q, want [%q]", f.uploader.watermarks, want)
	}

	stored, _ := f.checkins.GetByID(context.Background(), c.ID)
	if stored == nil || stored.EmployeeID != f.worker.ID {
		t.Fatalf("stored checkin = %+v", stored)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, false)
	valid := CheckinRequest{
		EmployeeID: f.worker.ID.Hex(),
		Lat:        "12.9716",
		Lng:        "77.5946",
		Photo:      []byte("jpeg"),
	}

	tests := []struct {
		name   string
		modify func(*CheckinRequest)
		want   error
	}{
		{"missing lat", func(r *CheckinRequest) { r.Lat = "" }, ErrLocationRequired},
		{"missing lng", func(r *CheckinRequest) { r.Lng = " " }, ErrLocationRequired},
		{"missing photo", func(r *CheckinRequest) { r.Photo = nil }, ErrPhotoRequired},
		{"non numeric", func(r *CheckinRequest) { r.Lat = "north" }, ErrInvalidLocation},
		{"lat out of bounds", func(r *CheckinRequest) { r.Lat = "91" }, ErrInvalidLocation},
		{"lng out of bounds", func(r *CheckinRequest) { r.Lng = "-180.5" }, ErrInvalidLocation},
		{"lat NaN", func(r *CheckinRequest) { r.Lat = "NaN" }, ErrInvalidLocation},
		{"lng NaN", func(r *CheckinRequest) { r.Lng = "nan" }, ErrInvalidLocation},
		{"lat infinite", func(r *CheckinRequest) { r.Lat = "Inf" }, ErrInvalidLocation},
		{"lng infinite", func(r *CheckinRequest) { r.Lng = "-Inf" }, ErrInvalidLocation},
		{"bad identity", func(r *CheckinRequest) { r.EmployeeID = "nope" }, ErrInvalidIdentity},
		{"outside geofence", func(r *CheckinRequest) { r.Lat, r.Lng = "13.0827", "80.2707" }, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			_, err := f.svc.Submit(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Submit() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(f.uploader.watermarks) != 0 {
		t.Errorf("rejected submissions uploaded %d photos", len(f.uploader.watermarks))
	}
}

func TestSubmitDirectoryFailureIsInternal(t *testing.T) {
	f := newFixture(t, false)
	f.svc.locator = geofence.NewEvaluator(failingDirectory{}, 250)

	_, err := f.svc.Submit(context.Background(), CheckinRequest{
		EmployeeID: f.worker.ID.Hex(),
		Lat:        "12.9716",
		Lng:        "77.5946",
		Photo:      []byte("jpeg"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apperr.StatusOf(err); got != 500 {
		t.Errorf("status = %d, want 500", got)
	}
}

func TestSubmitUploadFailure(t *testing.T) {
	f := newFixture(t, false)
	f.uploader.err = errors.New("media service down")

	_, err := f.svc.Submit(context.Background(), CheckinRequest{
		EmployeeID: f.worker.ID.Hex(),
		Lat:        "12.9716",
		Lng:        "77.5946",
		Photo:      []byte("jpeg"),
	})
	if apperr.StatusOf(err) != 500 {
		t.Fatalf("error = %v, want internal", err)
	}
	if _, err := f.svc.LatestStatus(context.Background(), f.worker.ID.Hex()); !errors.Is(err, ErrNoCheckin) {
		t.Errorf("a record was created despite the failed upload: %v", err)
	}
}

func TestReview(t *testing.T) {
	f := newFixture(t, false)
	c := f.submit(t)

	got, err := f.svc.Review(context.Background(), c.ID.Hex(), "rejected", "blurry photo", bson.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if got.Status != model.CheckinStatusRejected || got.ReviewComments != "blurry photo" {
		t.Errorf("got status %q comments %q", got.Status, got.ReviewComments)
	}
	if got.ReviewedAt == nil || got.ReviewedBy == nil {
		t.Error("reviewer not recorded")
	}

	if _, err := f.svc.Review(context.Background(), c.ID.Hex(), "maybe", "", ""); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("invalid decision error = %v", err)
	}
	if _, err := f.svc.Review(context.Background(), "not-an-id", "pending", "", ""); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("pending decision error = %v", err)
	}
	if _, err := f.svc.Review(context.Background(), bson.NewObjectID().Hex(), "approved", "", ""); !errors.Is(err, ErrCheckinNotFound) {
		t.Errorf("missing record error = %v", err)
	}
	if _, err := f.svc.Review(context.Background(), "not-an-id", "approved", "", ""); !errors.Is(err, ErrCheckinNotFound) {
		t.Errorf("malformed id error = %v", err)
	}
}

func TestReReviewOverwrites(t *testing.T) {
	f := newFixture(t, false)
	c := f.submit(t)

	if _, err := f.svc.Review(context.Background(), c.ID.Hex(), "approved", "ok", ""); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Review(context.Background(), c.ID.Hex(), "rejected", "changed my mind", "")
	if err != nil {
		t.Fatalf("second Review: %v", err)
	}
	if got.Status != model.CheckinStatusRejected || got.ReviewComments != "changed my mind" {
		t.Errorf("second review did not overwrite: %+v", got)
	}
}

func TestReviewLockRejectsSecondReview(t *testing.T) {
	f := newFixture(t, true)
	c := f.submit(t)
	f.approve(t, c.ID)

	_, err := f.svc.Review(context.Background(), c.ID.Hex(), "rejected", "", "")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("error = %v, want ErrAlreadyReviewed", err)
	}
	stored, _ := f.checkins.GetByID(context.Background(), c.ID)
	if stored.Status != model.CheckinStatusApproved {
		t.Errorf("status = %q, want approved", stored.Status)
	}
}

func TestCheckoutGuards(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	other := bson.NewObjectID().Hex()

	pending := f.submit(t)
	rejected := f.submit(t)
	if _, err := f.svc.Review(ctx, rejected.ID.Hex(), "rejected", "", ""); err != nil {
		t.Fatal(err)
	}
	approved := f.submit(t)
	f.approve(t, approved.ID)

	tests := []struct {
		name       string
		employeeID string
		checkinID  string
		want       error
	}{
		{"missing checkin", f.worker.ID.Hex(), bson.NewObjectID().Hex(), ErrCheckinNotFound},
		{"malformed checkin id", f.worker.ID.Hex(), "abc", ErrCheckinNotFound},
		// Mismatch is checked before approval, so a pending record owned by
		// someone else reports the mismatch.
		{"employee mismatch", other, pending.ID.Hex(), ErrEmployeeMismatch},
		{"pending", f.worker.ID.Hex(), pending.ID.Hex(), ErrNotApproved},
		{"rejected", f.worker.ID.Hex(), rejected.ID.Hex(), ErrNotApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Checkout(ctx, tt.employeeID, tt.checkinID)
			if !errors.Is(err, tt.want) {
				t.Errorf("Checkout() error = %v, want %v", err, tt.want)
			}
		})
	}

	out, err := f.svc.Checkout(ctx, f.worker.ID.Hex(), approved.ID.Hex())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if out.CheckinID != approved.ID || out.EmployeeID != f.worker.ID {
		t.Errorf("checkout = %+v", out)
	}
	if _, err := f.svc.Checkout(ctx, f.worker.ID.Hex(), approved.ID.Hex()); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Errorf("second checkout error = %v, want ErrAlreadyCheckedOut", err)
	}
}

func TestConcurrentCheckoutSingleWinner(t *testing.T) {
	f := newFixture(t, false)
	c := f.submit(t)
	f.approve(t, c.ID)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Checkout(context.Background(), f.worker.ID.Hex(), c.ID.Hex())
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrAlreadyCheckedOut) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successes = %d, want 1", successes)
	}
	list, _ := f.checkouts.List(context.Background(), nil, nil)
	if len(list) != 1 {
		t.Errorf("stored checkouts = %d, want 1", len(list))
	}
}

func TestLatestStatus(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	if _, err := f.svc.LatestStatus(ctx, f.worker.ID.Hex()); !errors.Is(err, ErrNoCheckin) {
		t.Fatalf("error = %v, want ErrNoCheckin", err)
	}
	first := f.submit(t)
	f.approve(t, first.ID)
	status, err := f.svc.LatestStatus(ctx, f.worker.ID.Hex())
	if err != nil || status != model.CheckinStatusApproved {
		t.Fatalf("LatestStatus = %q, %v", status, err)
	}
	time.Sleep(time.Millisecond)
	f.submit(t)
	if status, _ := f.svc.LatestStatus(ctx, f.worker.ID.Hex()); status != model.CheckinStatusPending {
		t.Errorf("LatestStatus = %q, want pending", status)
	}
}

func TestPendingAndHistory(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	a := f.submit(t)
	b := f.submit(t)
	f.approve(t, b.ID)

	pending, err := f.svc.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != a.ID {
		t.Fatalf("Pending = %+v", pending)
	}
	if pending[0].Employee == nil || pending[0].Employee.EmployeeID != "EMP001" {
		t.Errorf("employee not populated: %+v", pending[0].Employee)
	}

	history, err := f.svc.History(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != b.ID {
		t.Fatalf("History = %+v", history)
	}

	today := time.Now().In(DisplayZone).Format("2006-01-02")
	if history, _ := f.svc.History(ctx, today); len(history) != 1 {
		t.Errorf("History(%s) = %d records, want 1", today, len(history))
	}
	if history, _ := f.svc.History(ctx, "2001-01-01"); len(history) != 0 {
		t.Errorf("History(2001-01-01) = %d records, want 0", len(history))
	}
	if _, err := f.svc.History(ctx, "05/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date error = %v", err)
	}
}

func TestCheckoutsRenderDisplayZone(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	c := f.submit(t)
	f.approve(t, c.ID)
	if _, err := f.svc.Checkout(ctx, f.worker.ID.Hex(), c.ID.Hex()); err != nil {
		t.Fatal(err)
	}

	views, err := f.svc.Checkouts(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	v := views[0]
	if v.Timestamp != "2024-03-05T09:30:00+05:30" {
		t.Errorf("Timestamp = %q", v.Timestamp)
	}
	if v.Checkin == nil || !strings.HasSuffix(v.Checkin.Timestamp, "+05:30") {
		t.Errorf("Checkin = %+v", v.Checkin)
	}
	if v.Employee == nil || v.Employee.FirstName != "Asha" {
		t.Errorf("Employee = %+v", v.Employee)
	}

	from := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	if views, _ := f.svc.Checkouts(ctx, &from, nil); len(views) != 0 {
		t.Errorf("Checkouts(from) = %d, want 0", len(views))
	}
	to := from.Add(-48 * time.Hour)
	if _, err := f.svc.Checkouts(ctx, &from, &to); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range error = %v", err)
	}
}
