package memstore

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/model"
)

func TestCheckinsSameMillisecondOrderByID(t *testing.T) {
	s := NewCheckinStore()
	employee := bson.NewObjectID()
	at := time.Date(2024, 3, 5, 4, 0, 0, 0, time.UTC)

	first, second := bson.NewObjectID(), bson.NewObjectID()
	for _, id := range []bson.ObjectID{first, second} {
		s.data[id] = model.Checkin{ID: id, EmployeeID: employee, Status: model.CheckinStatusPending, CreatedAt: at}
	}

	latest, err := s.Latest(context.Background(), employee)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != second {
		t.Errorf("Latest = %v, want %s", latest, second.Hex())
	}

	list, err := s.ListByStatus(context.Background(), []model.CheckinStatus{model.CheckinStatusPending}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].ID != first {
		t.Errorf("ListByStatus order = %v", list)
	}
}
