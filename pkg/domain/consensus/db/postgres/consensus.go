package postgres

import (
	"context"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/edubba/edubba/pkg/domain/internal/db/postgres"
)

type consensusPG struct { // implements kdb.ConsensusInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *consensusPG {
	return &consensusPG{pool: pool}
}

func (c *consensusPG) Resolve(ctx context.Context, target domain.TargetRef) (domain.ConsensusResult, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return domain.ConsensusResult{}, xe.Wrap(err)
	}
	defer conn.Release()

	// the common case: someone holds the consensus flag, and the partial
	// index over that flag finds it directly.
	if won, err := kpgintr.ConsensusOnTarget(ctx, conn, target); err != nil {
		return domain.ConsensusResult{}, err
	} else if won != nil {
		return domain.ConsensusResult{
			Target:    target,
			State:     domain.ConsensusDecided,
			Consensus: won,
		}, nil
	}

	table, idColumn, err := kpgintr.TargetTable(target.Kind)
	if err != nil {
		return domain.ConsensusResult{}, err
	}
	if ok, err := kpgintr.TargetExists(ctx, conn, target); err != nil {
		return domain.ConsensusResult{}, err
	} else if !ok {
		return domain.ConsensusResult{}, kpgerr.Missing{
			Table:    table,
			Identity: fmt.Sprintf("%s=%d", idColumn, target.Id),
		}
	}

	claims, err := kpgintr.ClaimsOnTarget(ctx, conn, target)
	if err != nil {
		return domain.ConsensusResult{}, err
	}
	return domain.SummarizeConsensus(target, claims), nil
}
