package edubba

import (
	"context"

	bconf "github.com/edubba/edubba/pkg/configs/backend"
	"github.com/edubba/edubba/pkg/domain/claim"
	"github.com/edubba/edubba/pkg/domain/consensus"
	"github.com/edubba/edubba/pkg/domain/decision"
	"github.com/edubba/edubba/pkg/domain/discussion"
	"github.com/edubba/edubba/pkg/domain/edubba/db/postgres"
	"github.com/edubba/edubba/pkg/domain/evidence"
	"github.com/edubba/edubba/pkg/domain/keychain"
	"github.com/edubba/edubba/pkg/domain/pipeline"
	"github.com/edubba/edubba/pkg/domain/run"
	"github.com/edubba/edubba/pkg/domain/schema"
)

type Edubba interface {
	Config() *bconf.EdubbaConfig

	Run() run.Interface
	Claim() claim.Interface
	Decision() decision.Interface
	Evidence() evidence.Interface
	Discussion() discussion.Interface

	Consensus() consensus.Interface
	Pipeline() pipeline.Interface
	Schema() schema.Interface
	Keychain() keychain.Interface
}

type edubba struct {
	config *bconf.EdubbaConfig

	run        run.Interface
	claim      claim.Interface
	decision   decision.Interface
	evidence   evidence.Interface
	discussion discussion.Interface

	consensus consensus.Interface
	pipeline  pipeline.Interface
	schema    schema.Interface
	keychain  keychain.Interface
}

func New(
	ctx context.Context,
	config *bconf.EdubbaConfig,
	options ...Option,
) (Edubba, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.Database(), opt.pg...)
	if err != nil {
		return nil, err
	}

	return &edubba{
		config: config,

		run:        run.New(pg.Run()),
		claim:      claim.New(pg.Claim()),
		decision:   decision.New(pg.Decision()),
		evidence:   evidence.New(pg.Evidence()),
		discussion: discussion.New(pg.Discussion()),

		consensus: consensus.New(pg.Consensus()),
		pipeline:  pipeline.New(pg.Pipeline()),
		schema:    schema.New(pg.Schema()),
		keychain:  keychain.New(pg.Keychain()),
	}, nil
}

type Option func(*_options)

type _options struct {
	pg []postgres.Option
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

func (e *edubba) Config() *bconf.EdubbaConfig {
	return e.config
}

func (e *edubba) Run() run.Interface {
	return e.run
}

func (e *edubba) Claim() claim.Interface {
	return e.claim
}

func (e *edubba) Decision() decision.Interface {
	return e.decision
}

func (e *edubba) Evidence() evidence.Interface {
	return e.evidence
}

func (e *edubba) Discussion() discussion.Interface {
	return e.discussion
}

func (e *edubba) Consensus() consensus.Interface {
	return e.consensus
}

func (e *edubba) Pipeline() pipeline.Interface {
	return e.pipeline
}

func (e *edubba) Schema() schema.Interface {
	return e.schema
}

func (e *edubba) Keychain() keychain.Interface {
	return e.keychain
}
