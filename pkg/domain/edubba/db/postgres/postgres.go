package postgres

import (
	"context"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	kclaim "github.com/edubba/edubba/pkg/domain/claim/db"
	kpgclaim "github.com/edubba/edubba/pkg/domain/claim/db/postgres"
	kconsensus "github.com/edubba/edubba/pkg/domain/consensus/db"
	kpgconsensus "github.com/edubba/edubba/pkg/domain/consensus/db/postgres"
	kdecision "github.com/edubba/edubba/pkg/domain/decision/db"
	kpgdecision "github.com/edubba/edubba/pkg/domain/decision/db/postgres"
	kdiscussion "github.com/edubba/edubba/pkg/domain/discussion/db"
	kpgdiscussion "github.com/edubba/edubba/pkg/domain/discussion/db/postgres"
	dbInterface "github.com/edubba/edubba/pkg/domain/edubba/db"
	kevidence "github.com/edubba/edubba/pkg/domain/evidence/db"
	kpgevidence "github.com/edubba/edubba/pkg/domain/evidence/db/postgres"
	kkeychain "github.com/edubba/edubba/pkg/domain/keychain/db"
	kpgkeychain "github.com/edubba/edubba/pkg/domain/keychain/db/postgres"
	kpipeline "github.com/edubba/edubba/pkg/domain/pipeline/db"
	kpgpipeline "github.com/edubba/edubba/pkg/domain/pipeline/db/postgres"
	krun "github.com/edubba/edubba/pkg/domain/run/db"
	kpgrun "github.com/edubba/edubba/pkg/domain/run/db/postgres"
	kschema "github.com/edubba/edubba/pkg/domain/schema/db"
	kpgschema "github.com/edubba/edubba/pkg/domain/schema/db/postgres"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/jackc/pgx/v4/pgxpool"
)

type edubbaDBPostgres struct {
	pool       *pgxpool.Pool
	runs       krun.RunInterface
	claims     kclaim.ClaimInterface
	decisions  kdecision.DecisionInterface
	evidence   kevidence.EvidenceInterface
	discussion kdiscussion.DiscussionInterface
	consensus  kconsensus.ConsensusInterface
	pipeline   kpipeline.PipelineInterface
	schema     kschema.SchemaInterface
	keychain   kkeychain.KeychainInterface
}

type Config struct {
	SchemaRepository string
}

func DefaultConfig() Config {
	return Config{}
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.EdubbaDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &edubbaDBPostgres{
		pool:       pool,
		runs:       kpgrun.New(p),
		claims:     kpgclaim.New(p),
		decisions:  kpgdecision.New(p),
		evidence:   kpgevidence.New(p),
		discussion: kpgdiscussion.New(p),
		consensus:  kpgconsensus.New(p),
		pipeline:   kpgpipeline.New(p),
		schema:     schema,
		keychain:   kpgkeychain.New(p),
	}, nil
}

func (e *edubbaDBPostgres) Run() krun.RunInterface {
	return e.runs
}

func (e *edubbaDBPostgres) Claim() kclaim.ClaimInterface {
	return e.claims
}

func (e *edubbaDBPostgres) Decision() kdecision.DecisionInterface {
	return e.decisions
}

func (e *edubbaDBPostgres) Evidence() kevidence.EvidenceInterface {
	return e.evidence
}

func (e *edubbaDBPostgres) Discussion() kdiscussion.DiscussionInterface {
	return e.discussion
}

func (e *edubbaDBPostgres) Consensus() kconsensus.ConsensusInterface {
	return e.consensus
}

func (e *edubbaDBPostgres) Pipeline() kpipeline.PipelineInterface {
	return e.pipeline
}

func (e *edubbaDBPostgres) Schema() kschema.SchemaInterface {
	return e.schema
}

func (e *edubbaDBPostgres) Keychain() kkeychain.KeychainInterface {
	return e.keychain
}

func (e *edubbaDBPostgres) Close() error {
	e.pool.Close()
	return nil
}
