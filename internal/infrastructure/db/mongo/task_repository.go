package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

type TaskRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{db: db, col: db.Collection(collectionTasks)}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

// Update replaces the stored document with t.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": updatedAt.UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Delete removes the task's comments and attachments, detaches its
// notifications and finally removes the task itself. The writes share one
// transaction when the deployment supports it (replica set or mongos).
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}

	return r.inTransaction(ctx, func(ctx context.Context) error {
		return r.deleteCascade(ctx, id)
	})
}

// inTransaction runs fn inside a multi-document transaction. A standalone
// server rejects transactions; fn then runs without one.
func (r *TaskRepository) inTransaction(ctx context.Context, fn func(context.Context) error) error {
	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if transactionsUnsupported(err) {
		return fn(ctx)
	}
	return err
}

// transactionsUnsupported reports the IllegalOperation error a standalone
// mongod returns for transactional writes.
func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return cmdErr.Code == 20 && strings.Contains(cmdErr.Message, "Transaction numbers")
}

func (r *TaskRepository) deleteCascade(ctx context.Context, id string) error {
	byTask := bson.M{"task_id": id}
	if _, err := r.db.Collection(collectionComments).DeleteMany(ctx, byTask); err != nil {
		return fmt.Errorf("delete task comments: %w", err)
	}
	if _, err := r.db.Collection(collectionAttachments).DeleteMany(ctx, byTask); err != nil {
		return fmt.Errorf("delete task attachments: %w", err)
	}
	if _, err := r.db.Collection(collectionNotifications).UpdateMany(ctx, byTask, bson.M{"$unset": bson.M{"task_id": ""}}); err != nil {
		return fmt.Errorf("detach task notifications: %w", err)
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := taskFilterDoc(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, taskFindOptions(f))
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	tasks := []*domain.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *TaskRepository) Count(ctx context.Context, f ports.TaskFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, taskFilterDoc(f))
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// taskFilterDoc translates a TaskFilter into a query document.
func taskFilterDoc(f ports.TaskFilter) bson.M {
	filter := bson.M{}
	if f.CreatorID != "" {
		filter["creator_id"] = f.CreatorID
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}

	status := bson.M{}
	if f.Status != "" {
		status["$eq"] = string(f.Status)
	}
	if f.ExcludeStatus != "" {
		status["$ne"] = string(f.ExcludeStatus)
	}
	if len(status) > 0 {
		filter["status"] = status
	}

	if f.Priority != "" {
		filter["priority"] = string(f.Priority)
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	created := bson.M{}
	if !f.CreatedFrom.IsZero() {
		created["$gte"] = f.CreatedFrom.UTC()
	}
	if !f.CreatedTo.IsZero() {
		created["$lte"] = f.CreatedTo.UTC()
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	if !f.DeadlineAfter.IsZero() {
		filter["deadline"] = bson.M{"$gt": f.DeadlineAfter.UTC()}
	}
	return filter
}

func taskFindOptions(f ports.TaskFilter) *options.FindOptions {
	opts := options.Find()
	if f.SortByDeadline {
		opts.SetSort(bson.D{{Key: "deadline", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit))
		opts.SetLimit(int64(f.Limit))
	}
	return opts
}
