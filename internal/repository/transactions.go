package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
	queryTimeout     = 5 * time.Second
)

var collectionNames = map[models.Family]string{
	models.FamilyMobileMoney: "mpesa_transactions",
	models.FamilyBank:        "bank_transactions",
	models.FamilyCard:        "card_transactions",
}

// TransactionStore keeps pending transactions in one collection per family.
// Every status change is a single conditional update, so a terminal record
// can never be overwritten by a late or concurrent callback.
type TransactionStore struct {
	collections map[models.Family]*mongo.Collection
	now         func() time.Time
}

func NewTransactionStore(db *mongo.Database) *TransactionStore {
	collections := make(map[models.Family]*mongo.Collection, len(collectionNames))
	for family, name := range collectionNames {
		collections[family] = db.Collection(name)
	}
	return &TransactionStore{collections: collections, now: time.Now}
}

func (s *TransactionStore) collection(family models.Family) (*mongo.Collection, error) {
	c, ok := s.collections[family]
	if !ok {
		return nil, apperrors.Invalid("family", fmt.Sprintf("unknown transaction family %q", family))
	}
	return c, nil
}

// EnsureIndexes creates the lookup and audit indexes for every family.
func (s *TransactionStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "correlation_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "secondary_correlation_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	for family, c := range s.collections {
		if _, err := c.Indexes().CreateMany(ctx, indexModels); err != nil {
			return fmt.Errorf("create indexes for %s: %w", family, err)
		}
	}
	return nil
}

// Create inserts tx as pending. A second record with the same correlation id
// is refused with ErrDuplicate.
func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	c, err := s.collection(models.FamilyOf(tx.Kind))
	if err != nil {
		return err
	}

	now := s.now().UTC()
	tx.Status = models.StatusPending
	tx.CreatedAt = now
	tx.UpdatedAt = now

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := c.InsertOne(ctx, tx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = apperrors.ErrDuplicate
		}
		return &apperrors.PersistenceError{Op: "create", CorrelationID: tx.CorrelationID, Err: err}
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = id
	}
	return nil
}

// FindByCorrelationID returns the record whose primary or secondary
// correlation id is id.
func (s *TransactionStore) FindByCorrelationID(ctx context.Context, family models.Family, id string) (*models.Transaction, error) {
	c, err := s.collection(family)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var tx models.Transaction
	if err := c.FindOne(ctx, byCorrelation(id)).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "find", CorrelationID: id, Err: err}
	}
	return &tx, nil
}

// Settle moves a pending or queried record to a terminal status and returns
// the updated record. ErrNotFound means no settleable record matched: the id
// is unknown or another writer settled it first. Amount is never written.
func (s *TransactionStore) Settle(ctx context.Context, family models.Family, id string, st models.Settlement) (*models.Transaction, error) {
	if !st.Status.Terminal() {
		return nil, apperrors.Invalid("status", fmt.Sprintf("%q is not a terminal status", st.Status))
	}
	c, err := s.collection(family)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":      st.Status,
		"result_code": st.ResultCode,
		"result_desc": st.ResultDesc,
		"updated_at":  s.now().UTC(),
	}
	if st.ReceiptID != "" {
		set["settlement_receipt_id"] = st.ReceiptID
	}
	if st.SettledAt != nil {
		set["settlement_time"] = st.SettledAt.UTC()
	}
	if st.AmountPaid != 0 {
		set["amount_paid"] = st.AmountPaid
	}
	if st.PayerReference != "" {
		set["payer_reference"] = st.PayerReference
	}

	filter := bson.M{
		"$and": bson.A{
			byCorrelation(id),
			bson.M{"status": bson.M{"$in": st.Status.Sources()}},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var tx models.Transaction
	if err := c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "settle", CorrelationID: id, Err: err}
	}
	return &tx, nil
}

// MarkQueried records that a status query was answered without a final
// outcome. Terminal records are left untouched and yield ErrNotFound.
func (s *TransactionStore) MarkQueried(ctx context.Context, family models.Family, id, desc string) error {
	c, err := s.collection(family)
	if err != nil {
		return err
	}

	filter := bson.M{
		"$and": bson.A{
			byCorrelation(id),
			bson.M{"status": bson.M{"$in": models.StatusQueried.Sources()}},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":          models.StatusQueried,
		"last_query_desc": desc,
		"updated_at":      s.now().UTC(),
	}}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := c.UpdateOne(ctx, filter, update)
	if err != nil {
		return &apperrors.PersistenceError{Op: "mark queried", CorrelationID: id, Err: err}
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListByStatus returns the newest records in status created at or after since.
// A zero since means no lower bound.
func (s *TransactionStore) ListByStatus(ctx context.Context, family models.Family, status models.Status, since time.Time, limit int64) ([]models.Transaction, error) {
	c, err := s.collection(family)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.Invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := bson.M{"status": status}
	if !since.IsZero() {
		query["created_at"] = bson.M{"$gte": since.UTC()}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, 2*queryTimeout)
	defer cancel()

	cur, err := c.Find(ctx, query, opts)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list", Err: err}
	}
	defer cur.Close(ctx)

	txs := []models.Transaction{}
	if err := cur.All(ctx, &txs); err != nil {
		return nil, &apperrors.PersistenceError{Op: "list", Err: err}
	}
	return txs, nil
}

func byCorrelation(id string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"correlation_id": id},
		bson.M{"secondary_correlation_id": id},
	}}
}
