package mongo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

func TestTaskFilterDoc_Empty(t *testing.T) {
	if doc := taskFilterDoc(ports.TaskFilter{}); len(doc) != 0 {
		t.Fatalf("expected empty filter, got %v", doc)
	}
}

func TestTaskFilterDoc_AllPredicates(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)
	doc := taskFilterDoc(ports.TaskFilter{
		CreatorID:     "admin-1",
		ClientID:      "client-1",
		Status:        domain.StatusPending,
		ExcludeStatus: domain.StatusCompleted,
		Priority:      domain.PriorityHigh,
		Search:        "a.b",
		CreatedFrom:   from,
		CreatedTo:     to,
		DeadlineAfter: to,
	})

	if doc["creator_id"] != "admin-1" || doc["client_id"] != "client-1" || doc["priority"] != "high" {
		t.Fatalf("equality predicates wrong: %v", doc)
	}
	status := doc["status"].(bson.M)
	if status["$eq"] != "pending" || status["$ne"] != "completed" {
		t.Fatalf("status predicate wrong: %v", status)
	}
	or := doc["$or"].(bson.A)
	if len(or) != 2 {
		t.Fatalf("expected title/description alternatives, got %v", or)
	}
	title := or[0].(bson.M)["title"].(bson.M)
	if title["$regex"] != `a\.b` || title["$options"] != "i" {
		t.Fatalf("search must be quoted and case-insensitive: %v", title)
	}
	created := doc["created_at"].(bson.M)
	if !created["$gte"].(time.Time).Equal(from) || !created["$lte"].(time.Time).Equal(to) {
		t.Fatalf("created range wrong: %v", created)
	}
	if !doc["deadline"].(bson.M)["$gt"].(time.Time).Equal(to) {
		t.Fatalf("deadline predicate wrong: %v", doc["deadline"])
	}
}

func TestTaskFindOptions(t *testing.T) {
	opts := taskFindOptions(ports.TaskFilter{Page: 3, Limit: 20})
	if *opts.Skip != 40 || *opts.Limit != 20 {
		t.Fatalf("expected skip 40 limit 20, got %d/%d", *opts.Skip, *opts.Limit)
	}
	if sort := opts.Sort.(bson.D); sort[0].Key != "created_at" || sort[0].Value != -1 {
		t.Fatalf("expected newest first, got %v", sort)
	}

	opts = taskFindOptions(ports.TaskFilter{SortByDeadline: true})
	if opts.Limit != nil {
		t.Fatalf("zero limit must not page")
	}
	if sort := opts.Sort.(bson.D); sort[0].Key != "deadline" || sort[0].Value != 1 {
		t.Fatalf("expected deadline ascending, got %v", sort)
	}
}

func TestTransactionsUnsupported(t *testing.T) {
	standalone := mongo.CommandError{
		Code:    20,
		Name:    "IllegalOperation",
		Message: "Transaction numbers are only allowed on a replica set member or mongos",
	}
	if !transactionsUnsupported(fmt.Errorf("delete task comments: %w", standalone)) {
		t.Fatalf("expected wrapped standalone error to be recognised")
	}
	if transactionsUnsupported(mongo.CommandError{Code: 11000, Message: "duplicate key"}) {
		t.Fatalf("unrelated command error must not trigger the fallback")
	}
	if transactionsUnsupported(errors.New("connection reset")) || transactionsUnsupported(nil) {
		t.Fatalf("non-command errors must not trigger the fallback")
	}
}
