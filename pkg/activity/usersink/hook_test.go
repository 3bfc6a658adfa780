package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-props/pkg/activity"
	"github.com/goliatone/go-props/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookRecordsPropertyChange(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID, userID, tenantID := uuid.New(), uuid.New(), uuid.New()

	event := activity.Changed("settings", "network/port")
	event.ActorID = actorID.String()
	event.UserID = userID.String()
	event.TenantID = tenantID.String()
	event.Channel = "properties"
	event.Value = int64(8080)
	event.OccurredAt = now

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID || record.TenantID != tenantID {
		t.Fatalf("unexpected identities: %+v", record)
	}
	if record.Verb != activity.VerbPropertyChanged || record.ObjectType != activity.ObjectTypeProperty || record.ObjectID != "settings/network/port" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "properties" || !record.OccurredAt.Equal(now) {
		t.Fatalf("unexpected channel or time: %+v", record)
	}
	if record.Data["path"] != "network/port" || record.Data["new_value"] != int64(8080) {
		t.Fatalf("expected property attributes, got %+v", record.Data)
	}
}

func TestHookKeepsNonUUIDReferences(t *testing.T) {
	sink := &recordingSink{}
	event := activity.Committed("settings")
	event.ActorID = "cli-user"

	if err := (usersink.Hook{Sink: sink}).Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.ActorID != uuid.Nil || record.Data["actor_ref"] != "cli-user" {
		t.Fatalf("expected actor_ref passthrough, got %+v", record)
	}
	if record.ObjectType != activity.ObjectTypeModel || record.OccurredAt.IsZero() {
		t.Fatalf("unexpected commit record %+v", record)
	}
}

func TestHookFiltersVerbs(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{" PROPERTIES.SAVED "}}

	_ = hook.Notify(context.Background(), activity.Changed("m", "x"))
	_ = hook.Notify(context.Background(), activity.Saved("m", "m.json"))

	if len(sink.records) != 1 || sink.records[0].Verb != activity.VerbPropertiesSaved {
		t.Fatalf("expected only the saved verb, got %+v", sink.records)
	}
	if sink.records[0].Data["file"] != "m.json" {
		t.Fatalf("expected file attribute, got %+v", sink.records[0].Data)
	}
}

func TestHookSkipsInvalidEventsAndSurfacesSinkErrors(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{}); err != nil {
		t.Fatalf("invalid event should be skipped, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
	if err := hook.Notify(context.Background(), activity.Committed("m")); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Committed("m")); err != nil {
		t.Fatalf("hook without sink should be a no-op, got %v", err)
	}
}
