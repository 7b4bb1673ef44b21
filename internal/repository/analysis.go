package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"chess_analyse/internal/domain/analysis"
	errs "chess_analyse/internal/errors"
)

const analysesCollection = "analyses"

type AnalysisRepository struct {
	log     *zap.SugaredLogger
	mongo   *mongo.Database
	cursors *CursorStorage
}

func NewAnalysisRepository(log *zap.SugaredLogger, mongo *mongo.Database, cursors *CursorStorage) *AnalysisRepository {
	return &AnalysisRepository{
		log:     log,
		mongo:   mongo,
		cursors: cursors,
	}
}

// EnsureIndexes creates the created_at index ListAnalyses sorts on.
func (r *AnalysisRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.mongo.Collection(analysesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create analyses index: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, a analysis.Analysis) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.mongo.Collection(analysesCollection).InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	r.log.Infof("analysis inserted successfully with id: %s", a.ID)
	return nil
}

func (r *AnalysisRepository) GetAnalysis(ctx context.Context, id string) (analysis.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var found analysis.Analysis
	err := r.mongo.Collection(analysesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&found)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return found, errs.ErrAnalysisNotFound
	} else if err != nil {
		r.log.Error(err)
		return found, err
	}

	return found, nil
}

func (r *AnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]analysis.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.mongo.Collection(analysesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []analysis.Analysis
	for cursor.Next(ctx) {
		var a analysis.Analysis
		if err = cursor.Decode(&a); err != nil {
			r.log.Error(err)
			return result, err
		}
		result = append(result, a)
	}
	return result, cursor.Err()
}

func (r *AnalysisRepository) SaveCursor(ctx context.Context, id string, token string) error {
	return r.cursors.StoreCursor(ctx, id, token)
}

func (r *AnalysisRepository) LoadCursor(ctx context.Context, id string) (string, error) {
	return r.cursors.GetCursor(ctx, id)
}
