package sqlite

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"graphmem-backend/domain/graph"
)

const nodeColumns = `id, kind, title, content, created_at, updated_at,
	intentions, priority, research_depth, active, declared_at,
	status, source, confidence, purpose, source_type, valence,
	valid_from, valid_to, recorded_at, suggested_at, org_kind`

// prefixedNodeColumns qualifies the node column list with a table alias
// for joined queries.
func prefixedNodeColumns(alias string) string {
	cols := strings.Split(nodeColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// rowScanner lets scanNode work over both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type nodeRow struct {
	id        string
	kind      string
	title     string
	content   string
	createdAt string
	updatedAt string

	intentions    sql.NullString
	priority      sql.NullInt64
	researchDepth sql.NullInt64
	active        sql.NullInt64
	declaredAt    sql.NullString

	status      sql.NullString
	source      sql.NullString
	confidence  sql.NullFloat64
	purpose     sql.NullString
	sourceType  sql.NullString
	valence     sql.NullString
	validFrom   sql.NullString
	validTo     sql.NullString
	recordedAt  sql.NullString
	suggestedAt sql.NullString

	orgKind sql.NullString
}

func (r *nodeRow) fields() []any {
	return []any{
		&r.id, &r.kind, &r.title, &r.content, &r.createdAt, &r.updatedAt,
		&r.intentions, &r.priority, &r.researchDepth, &r.active, &r.declaredAt,
		&r.status, &r.source, &r.confidence, &r.purpose, &r.sourceType, &r.valence,
		&r.validFrom, &r.validTo, &r.recordedAt, &r.suggestedAt, &r.orgKind,
	}
}

func scanNode(scanner rowScanner) (*graph.Node, error) {
	var r nodeRow
	if err := scanner.Scan(r.fields()...); err != nil {
		return nil, err
	}
	return r.toNode()
}

func scanNodeWithEdgeType(scanner rowScanner) (*graph.Node, graph.EdgeType, error) {
	var (
		r        nodeRow
		edgeType string
	)
	dest := append(r.fields(), &edgeType)
	if err := scanner.Scan(dest...); err != nil {
		return nil, "", err
	}
	node, err := r.toNode()
	if err != nil {
		return nil, "", err
	}
	return node, graph.EdgeType(edgeType), nil
}

func (r *nodeRow) toNode() (*graph.Node, error) {
	node := &graph.Node{
		ID:      r.id,
		Kind:    graph.NodeKind(r.kind),
		Title:   r.title,
		Content: r.content,
	}
	node.CreatedAt, _ = time.Parse(timeLayout, r.createdAt)
	node.UpdatedAt, _ = time.Parse(timeLayout, r.updatedAt)

	switch node.Kind {
	case graph.KindModule:
		props := &graph.ModuleProps{
			Priority:      int(r.priority.Int64),
			ResearchDepth: int(r.researchDepth.Int64),
			Active:        r.active.Int64 != 0,
		}
		if r.intentions.Valid {
			if err := json.Unmarshal([]byte(r.intentions.String), &props.Intentions); err != nil {
				return nil, err
			}
		}
		if r.declaredAt.Valid {
			props.DeclaredAt, _ = time.Parse(timeLayout, r.declaredAt.String)
		}
		node.Module = props

	case graph.KindInternal, graph.KindLeaf:
		props := &graph.BeliefProps{
			Status:     graph.NodeStatus(r.status.String),
			Source:     r.source.String,
			Confidence: r.confidence.Float64,
			Purpose:    graph.Purpose(r.purpose.String),
			SourceType: graph.SourceType(r.sourceType.String),
			Valence:    graph.Valence(r.valence.String),
			ValidFrom:  parseOptTime(r.validFrom),
			ValidTo:    parseOptTime(r.validTo),
		}
		if r.recordedAt.Valid {
			props.RecordedAt, _ = time.Parse(timeLayout, r.recordedAt.String)
		}
		props.SuggestedAt = parseOptTime(r.suggestedAt)
		node.Belief = props

	case graph.KindOrganization:
		node.Org = &graph.OrgProps{
			Kind:       graph.OrgKind(r.orgKind.String),
			Confidence: r.confidence.Float64,
		}
	}

	return node, nil
}

func parseOptTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}
