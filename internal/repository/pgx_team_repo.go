package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/makarapreneur/internal/db"
	"github.com/yakoovad/makarapreneur/internal/model"
)

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	Get(ctx context.Context, id string) (*model.Team, error)
	GetForUpdate(ctx context.Context, id string) (*model.Team, error)
	ListByLeader(ctx context.Context, leaderID string) ([]*model.Team, error)
	List(ctx context.Context, filter *model.TeamFilter) ([]*model.Team, error)
	UpdateProgress(ctx context.Context, id string, stage model.Stage, status model.TeamStatus) error
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

var teamColumns = []any{
	psql.Quote("teams", "id"),
	psql.Quote("teams", "competition_id"),
	psql.Quote("teams", "leader_id"),
	psql.Quote("teams", "name"),
	psql.Quote("teams", "institution"),
	psql.Quote("teams", "stage"),
	psql.Quote("teams", "status"),
	psql.Quote("teams", "created_at"),
}

// Create inserts the team row and its members, leader first. Call it within a transaction.
func (p *pgxTeamRepository) Create(ctx context.Context, team *model.Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("teams", "id", "competition_id", "leader_id", "name", "institution", "stage", "status", "created_at"),
		im.Values(
			psql.Arg(team.ID),
			psql.Arg(team.CompetitionID),
			psql.Arg(team.LeaderID),
			psql.Arg(team.Name),
			psql.Arg(team.Institution),
			psql.Arg(team.Stage),
			psql.Arg(team.Status),
			psql.Arg(team.CreatedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	if _, err = e.Exec(ctx, sql, args...); err != nil {
		return mapPgError(err)
	}

	members := psql.Insert(
		im.Into("team_members", "team_id", "position", "is_leader", "name", "email", "phone", "student_id"),
	)

	all := append([]model.TeamMember{team.Leader}, team.Members...)
	for i, m := range all {
		members.Apply(im.Values(
			psql.Arg(team.ID),
			psql.Arg(i),
			psql.Arg(i == 0),
			psql.Arg(m.Name),
			psql.Arg(m.Email),
			psql.Arg(m.Phone),
			psql.Arg(m.StudentID),
		))
	}

	sql, args, err = members.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return mapPgError(err)
}

func (p *pgxTeamRepository) Get(ctx context.Context, id string) (*model.Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.Where(psql.Quote("teams", "id").EQ(psql.Arg(id))),
	)

	teams, err := p.query(ctx, e, q)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNotFound
	}
	return teams[0], nil
}

// GetForUpdate reads the team and locks its row until the surrounding
// transaction ends. Call it within a transaction.
func (p *pgxTeamRepository) GetForUpdate(ctx context.Context, id string) (*model.Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.Where(psql.Quote("teams", "id").EQ(psql.Arg(id))),
		sm.ForUpdate("teams"),
	)

	teams, err := p.query(ctx, e, q)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNotFound
	}
	return teams[0], nil
}

func (p *pgxTeamRepository) ListByLeader(ctx context.Context, leaderID string) ([]*model.Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.Where(psql.Quote("teams", "leader_id").EQ(psql.Arg(leaderID))),
		sm.OrderBy(psql.Quote("teams", "created_at")),
	)

	return p.query(ctx, e, q)
}

func (p *pgxTeamRepository) List(ctx context.Context, filter *model.TeamFilter) ([]*model.Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.InnerJoin("competitions").On(psql.Quote("competitions", "id").EQ(psql.Quote("teams", "competition_id"))),
		sm.OrderBy(psql.Quote("teams", "created_at")),
	)

	if filter != nil {
		if filter.CompetitionSlug != "" {
			q.Apply(sm.Where(psql.Quote("competitions", "slug").EQ(psql.Arg(filter.CompetitionSlug))))
		}
		if filter.Stage != "" {
			q.Apply(sm.Where(psql.Quote("teams", "stage").EQ(psql.Arg(filter.Stage))))
		}
		if filter.Status != "" {
			q.Apply(sm.Where(psql.Quote("teams", "status").EQ(psql.Arg(filter.Status))))
		}
	}

	return p.query(ctx, e, q)
}

func (p *pgxTeamRepository) UpdateProgress(ctx context.Context, id string, stage model.Stage, status model.TeamStatus) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("teams"),
		um.SetCol("stage").ToArg(stage),
		um.SetCol("status").ToArg(status),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	return execAffectingOne(ctx, e, q)
}

func (p *pgxTeamRepository) query(ctx context.Context, e db.Executor, q builder) ([]*model.Team, error) {
	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Team, error) {
		t := &model.Team{}
		err := row.Scan(&t.ID, &t.CompetitionID, &t.LeaderID, &t.Name, &t.Institution, &t.Stage, &t.Status, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, err
	}

	if err = p.loadMembers(ctx, e, teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (p *pgxTeamRepository) loadMembers(ctx context.Context, e db.Executor, teams []*model.Team) error {
	if len(teams) == 0 {
		return nil
	}

	byID := make(map[string]*model.Team, len(teams))
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
		t.Members = make([]model.TeamMember, 0, model.MaxTeamMembers)
		ids = append(ids, t.ID)
	}

	sql, args, err := teamMembersQuery(ids).Build(ctx)
	if err != nil {
		return err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			teamID   string
			isLeader bool
			m        model.TeamMember
		)
		if err = rows.Scan(&teamID, &isLeader, &m.Name, &m.Email, &m.Phone, &m.StudentID); err != nil {
			return err
		}

		t, ok := byID[teamID]
		if !ok {
			continue
		}
		if isLeader {
			t.Leader = m
		} else {
			t.Members = append(t.Members, m)
		}
	}

	if err = rows.Err(); err != nil {
		return errors.Wrap(err, "read team members")
	}
	return nil
}

func teamMembersQuery(teamIDs []string) builder {
	ids := make([]bob.Expression, 0, len(teamIDs))
	for _, id := range teamIDs {
		ids = append(ids, psql.Arg(id))
	}

	return psql.Select(
		sm.Columns("team_id", "is_leader", "name", "email", "phone", "student_id"),
		sm.From("team_members"),
		sm.Where(psql.Quote("team_id").In(ids...)),
		sm.OrderBy("team_id"),
		sm.OrderBy("position"),
	)
}
