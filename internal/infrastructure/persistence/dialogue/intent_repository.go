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

type IntentRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewIntentRepository(db *sql.DB, logger *logging.ChanneledLogger) *IntentRepository {
	return &IntentRepository{db: db, logger: logger}
}

// Slot persistence uses two columns per slot: the value and a _set flag.
// A NULL value with the flag raised means the customer explicitly declined
// to constrain the slot, which is different from never having answered.

func (r *IntentRepository) FindByID(id string) (*dialogue.Intent, error) {
	query := `SELECT id, conversation_id, raw_text, brand, brand_set, type, type_set,
		package_info, package_set, candidate_ids, confidence
		FROM search_intents WHERE id = ?`

	start := time.Now()
	var in dialogue.Intent
	var brand, typ, pkg sql.NullString
	var brandSet, typeSet, pkgSet bool
	var candidatesJSON sql.NullString

	err := r.db.QueryRow(query, id).Scan(&in.ID, &in.ConversationID, &in.RawText,
		&brand, &brandSet, &typ, &typeSet, &pkg, &pkgSet, &candidatesJSON, &in.Confidence)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan intent", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan intent: %w", err)
	}

	in.Brand = slotFromColumns(brand, brandSet)
	in.Type = slotFromColumns(typ, typeSet)
	in.Package = slotFromColumns(pkg, pkgSet)

	if candidatesJSON.Valid {
		in.CandidatesResolved = true
		if err := json.Unmarshal([]byte(candidatesJSON.String), &in.CandidateIDs); err != nil {
			return nil, fmt.Errorf("failed to parse intent candidates: %w", err)
		}
		if in.CandidateIDs == nil {
			in.CandidateIDs = []string{}
		}
	}

	r.trackQuery(query, start)
	return &in, nil
}

func (r *IntentRepository) Store(intent *dialogue.Intent) error {
	query := `INSERT INTO search_intents (id, conversation_id, raw_text, brand, brand_set,
		type, type_set, package_info, package_set, candidate_ids, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	candidatesJSON, err := marshalCandidates(intent)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = r.db.Exec(query, intent.ID, intent.ConversationID, intent.RawText,
		intent.Brand.Value, intent.Brand.Known,
		intent.Type.Value, intent.Type.Known,
		intent.Package.Value, intent.Package.Known,
		candidatesJSON, intent.Confidence)
	if err != nil {
		r.logger.Database().Error("Intent insert failed", "error", err.Error(), "id", intent.ID)
		return fmt.Errorf("failed to insert intent: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *IntentRepository) Update(intent *dialogue.Intent) error {
	query := `UPDATE search_intents SET raw_text = ?, brand = ?, brand_set = ?,
		type = ?, type_set = ?, package_info = ?, package_set = ?,
		candidate_ids = ?, confidence = ? WHERE id = ?`

	candidatesJSON, err := marshalCandidates(intent)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = r.db.Exec(query, intent.RawText,
		intent.Brand.Value, intent.Brand.Known,
		intent.Type.Value, intent.Type.Known,
		intent.Package.Value, intent.Package.Known,
		candidatesJSON, intent.Confidence, intent.ID)
	if err != nil {
		r.logger.Database().Error("Intent update failed", "error", err.Error(), "id", intent.ID)
		return fmt.Errorf("failed to update intent: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

// marshalCandidates keeps "no cache yet" (NULL) distinct from a cached empty
// set ("[]").
func marshalCandidates(intent *dialogue.Intent) (*string, error) {
	if !intent.CandidatesResolved {
		return nil, nil
	}
	ids := intent.CandidateIDs
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent candidates: %w", err)
	}
	s := string(raw)
	return &s, nil
}

func slotFromColumns(value sql.NullString, set bool) dialogue.Slot {
	if !set {
		return dialogue.UnknownSlot()
	}
	if !value.Valid {
		return dialogue.NoneSlot()
	}
	return dialogue.ResolvedSlot(value.String)
}

func (r *IntentRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
