package dialogue

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type SearchRequestRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewSearchRequestRepository(db *sql.DB, logger *logging.ChanneledLogger) *SearchRequestRepository {
	return &SearchRequestRepository{db: db, logger: logger}
}

func (r *SearchRequestRepository) FindByID(id string) (*dialogue.SearchRequest, error) {
	query := `SELECT id, conversation_id, intent_id, lat, lng, radius_meters, created_at, expires_at
		FROM search_requests WHERE id = ?`

	start := time.Now()
	var req dialogue.SearchRequest
	err := r.db.QueryRow(query, id).Scan(&req.ID, &req.ConversationID, &req.IntentID,
		&req.Geo.Lat, &req.Geo.Lng, &req.RadiusMeters, &req.CreatedAt, &req.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan search request", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan search request: %w", err)
	}

	r.trackQuery(query, start)

	if !time.Now().UTC().Before(req.ExpiresAt) {
		return nil, nil
	}
	return &req, nil
}

func (r *SearchRequestRepository) Store(request *dialogue.SearchRequest) error {
	query := `INSERT INTO search_requests (id, conversation_id, intent_id, lat, lng, radius_meters, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, request.ID, request.ConversationID, request.IntentID,
		request.Geo.Lat, request.Geo.Lng, request.RadiusMeters, request.CreatedAt, request.ExpiresAt)
	if err != nil {
		r.logger.Database().Error("Search request insert failed", "error", err.Error(), "id", request.ID)
		return fmt.Errorf("failed to insert search request: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *SearchRequestRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

type SearchResultRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewSearchResultRepository(db *sql.DB, logger *logging.ChanneledLogger) *SearchResultRepository {
	return &SearchResultRepository{db: db, logger: logger}
}

func (r *SearchResultRepository) FindByID(id string) (*dialogue.SearchResult, error) {
	query := `SELECT id, request_id, items, created_at, expires_at
		FROM search_results WHERE id = ?`
	return r.findOne(query, id)
}

func (r *SearchResultRepository) FindByRequestID(requestID string) (*dialogue.SearchResult, error) {
	query := `SELECT id, request_id, items, created_at, expires_at
		FROM search_results WHERE request_id = ? ORDER BY created_at DESC LIMIT 1`
	return r.findOne(query, requestID)
}

func (r *SearchResultRepository) findOne(query, arg string) (*dialogue.SearchResult, error) {
	start := time.Now()
	var res dialogue.SearchResult
	var itemsJSON string
	err := r.db.QueryRow(query, arg).Scan(&res.ID, &res.RequestID, &itemsJSON,
		&res.CreatedAt, &res.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan search result", "error", err.Error())
		return nil, fmt.Errorf("failed to scan search result: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &res.Items); err != nil {
		return nil, fmt.Errorf("failed to parse search result items: %w", err)
	}
	if res.Items == nil {
		res.Items = []dialogue.ResultItem{}
	}

	r.trackQuery(query, start)

	if !time.Now().UTC().Before(res.ExpiresAt) {
		return nil, nil
	}
	return &res, nil
}

func (r *SearchResultRepository) Store(result *dialogue.SearchResult) error {
	items := result.Items
	if items == nil {
		items = []dialogue.ResultItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal search result items: %w", err)
	}

	query := `INSERT INTO search_results (id, request_id, items, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	_, err = r.db.Exec(query, result.ID, result.RequestID, string(itemsJSON),
		result.CreatedAt, result.ExpiresAt)
	if err != nil {
		r.logger.Database().Error("Search result insert failed", "error", err.Error(), "id", result.ID)
		return fmt.Errorf("failed to insert search result: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *SearchResultRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
