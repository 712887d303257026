// Package sqlite implements the typed graph store on a single SQLite
// file. Node variants share one wide table discriminated by kind; edge
// legality is enforced against the domain constraint table before any
// write reaches the database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"graphmem-backend/application/ports"
	"graphmem-backend/domain/graph"
	pkgerrors "graphmem-backend/pkg/errors"
)

const timeLayout = time.RFC3339Nano

// Store is the SQLite-backed GraphStore implementation.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore creates a store over an opened database.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// CreateNode persists a node produced by one of the domain constructors.
func (s *Store) CreateNode(ctx context.Context, node *graph.Node) error {
	if node == nil || !node.Kind.IsValid() {
		return pkgerrors.NewValidationError("node kind is not valid")
	}

	var (
		intentions    any
		priority      any
		researchDepth any
		active        any
		declaredAt    any

		status      any
		source      any
		confidence  any
		purpose     any
		sourceType  any
		valence     any
		validFrom   any
		validTo     any
		recordedAt  any
		suggestedAt any

		orgKind any
	)

	switch node.Kind {
	case graph.KindModule:
		if node.Module == nil {
			return pkgerrors.NewValidationError("module node is missing its payload")
		}
		raw, err := json.Marshal(node.Module.Intentions)
		if err != nil {
			return pkgerrors.NewValidationError("module intentions are not serializable")
		}
		intentions = string(raw)
		priority = node.Module.Priority
		researchDepth = node.Module.ResearchDepth
		active = boolToInt(node.Module.Active)
		declaredAt = node.Module.DeclaredAt.Format(timeLayout)

	case graph.KindInternal, graph.KindLeaf:
		if node.Belief == nil {
			return pkgerrors.NewValidationError("belief node is missing its payload")
		}
		b := node.Belief
		status = string(b.Status)
		source = b.Source
		confidence = b.Confidence
		purpose = string(b.Purpose)
		sourceType = string(b.SourceType)
		if b.Valence != "" {
			valence = string(b.Valence)
		}
		validFrom = optTime(b.ValidFrom)
		validTo = optTime(b.ValidTo)
		recordedAt = b.RecordedAt.Format(timeLayout)
		suggestedAt = optTime(b.SuggestedAt)

	case graph.KindOrganization:
		if node.Org == nil {
			return pkgerrors.NewValidationError("organization node is missing its payload")
		}
		orgKind = string(node.Org.Kind)
		confidence = node.Org.Confidence
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes (
			id, kind, title, content, created_at, updated_at,
			intentions, priority, research_depth, active, declared_at,
			status, source, confidence, purpose, source_type, valence,
			valid_from, valid_to, recorded_at, suggested_at, org_kind
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.ID, string(node.Kind), node.Title, node.Content,
		node.CreatedAt.Format(timeLayout), node.UpdatedAt.Format(timeLayout),
		intentions, priority, researchDepth, active, declaredAt,
		status, source, confidence, purpose, sourceType, valence,
		validFrom, validTo, recordedAt, suggestedAt, orgKind,
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("create node", err)
	}
	return nil
}

// GetNode retrieves any node variant by id.
func (s *Store) GetNode(ctx context.Context, id string) (*graph.Node, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("node " + id)
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get node", err)
	}
	return node, nil
}

// CreateEdge resolves both endpoints, validates edge legality through the
// domain constraint table, and only then writes the row.
func (s *Store) CreateEdge(ctx context.Context, fromID, toID string, t graph.EdgeType, props graph.EdgeProps) (*graph.Edge, error) {
	from, err := s.GetNode(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetNode(ctx, toID)
	if err != nil {
		return nil, err
	}

	edge, err := graph.NewEdge(from, to, t, props)
	if err != nil {
		return nil, err
	}

	var rationale any
	if edge.Rationale != "" {
		rationale = edge.Rationale
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO edges (id, from_id, to_id, edge_type, status, confidence, rationale, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		edge.ID, edge.FromID, edge.ToID, string(edge.Type),
		string(edge.Status), edge.Confidence, rationale,
		edge.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("create edge", err)
	}
	return edge, nil
}

// GetChildren returns the CONTAINS members of a node. Non-container
// variants yield an empty slice.
func (s *Store) GetChildren(ctx context.Context, id string) ([]*graph.Node, error) {
	node, err := s.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if !node.IsContainer() {
		return []*graph.Node{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedNodeColumns("n")+`
		FROM edges e
		JOIN nodes n ON n.id = e.to_id
		WHERE e.from_id = ? AND e.edge_type = ?
		ORDER BY e.created_at`,
		id, string(graph.EdgeContains),
	)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get children", err)
	}
	defer rows.Close()

	var children []*graph.Node
	for rows.Next() {
		child, err := scanNode(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("get children", err)
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("get children", err)
	}
	if children == nil {
		children = []*graph.Node{}
	}
	return children, nil
}

// GetRelated queries the semantic relationship edges in both directions
// and tags each result with its direction relative to the query node.
func (s *Store) GetRelated(ctx context.Context, id string, edgeType graph.EdgeType) ([]graph.Related, error) {
	if _, err := s.GetNode(ctx, id); err != nil {
		return nil, err
	}

	types := graph.RelationshipEdgeTypes()
	if edgeType != "" {
		if !edgeType.IsValid() {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown edge type %q", edgeType))
		}
		types = []graph.EdgeType{edgeType}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(types)), ",")
	args := make([]any, 0, len(types)+1)
	args = append(args, id)
	for _, t := range types {
		args = append(args, string(t))
	}

	var related []graph.Related

	outgoing, err := s.queryRelated(ctx, `
		SELECT `+prefixedNodeColumns("n")+`, e.edge_type
		FROM edges e
		JOIN nodes n ON n.id = e.to_id
		WHERE e.from_id = ? AND e.edge_type IN (`+placeholders+`)
		ORDER BY e.created_at`, args, graph.DirectionOutgoing)
	if err != nil {
		return nil, err
	}
	related = append(related, outgoing...)

	incoming, err := s.queryRelated(ctx, `
		SELECT `+prefixedNodeColumns("n")+`, e.edge_type
		FROM edges e
		JOIN nodes n ON n.id = e.from_id
		WHERE e.to_id = ? AND e.edge_type IN (`+placeholders+`)
		ORDER BY e.created_at`, args, graph.DirectionIncoming)
	if err != nil {
		return nil, err
	}
	related = append(related, incoming...)

	if related == nil {
		related = []graph.Related{}
	}
	return related, nil
}

func (s *Store) queryRelated(ctx context.Context, query string, args []any, dir graph.Direction) ([]graph.Related, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get related", err)
	}
	defer rows.Close()

	var out []graph.Related
	for rows.Next() {
		node, edgeType, err := scanNodeWithEdgeType(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("get related", err)
		}
		out = append(out, graph.Related{Node: node, Direction: dir, EdgeType: edgeType})
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("get related", err)
	}
	return out, nil
}

// StoreEmbedding persists an embedding row. Embeddings are immutable; a
// second write for the same (node, type) key is rejected.
func (s *Store) StoreEmbedding(ctx context.Context, emb *graph.Embedding) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (node_id, embedding_type, embedding, model, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		emb.NodeID, string(emb.Type), encodeVector(emb.Vector),
		emb.Model, len(emb.Vector), emb.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return pkgerrors.NewValidationError(
				fmt.Sprintf("embedding already exists for node %s type %s", emb.NodeID, emb.Type))
		}
		return pkgerrors.NewDatabaseError("store embedding", err)
	}
	return nil
}

// LoadEmbeddings returns every persisted embedding for index rebuild.
func (s *Store) LoadEmbeddings(ctx context.Context) ([]*graph.Embedding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT node_id, embedding_type, embedding, model, created_at FROM embeddings`)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("load embeddings", err)
	}
	defer rows.Close()

	var out []*graph.Embedding
	for rows.Next() {
		var (
			emb       graph.Embedding
			embType   string
			blob      []byte
			createdAt string
		)
		if err := rows.Scan(&emb.NodeID, &embType, &blob, &emb.Model, &createdAt); err != nil {
			return nil, pkgerrors.NewDatabaseError("load embeddings", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("load embeddings", err)
		}
		emb.Type = graph.EmbeddingType(embType)
		emb.Vector = vec
		emb.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		out = append(out, &emb)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("load embeddings", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func optTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

var _ ports.GraphStore = (*Store)(nil)
