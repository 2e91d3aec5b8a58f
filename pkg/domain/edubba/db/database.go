package db

import (
	kclaim "github.com/edubba/edubba/pkg/domain/claim/db"
	kconsensus "github.com/edubba/edubba/pkg/domain/consensus/db"
	kdecision "github.com/edubba/edubba/pkg/domain/decision/db"
	kdiscussion "github.com/edubba/edubba/pkg/domain/discussion/db"
	kevidence "github.com/edubba/edubba/pkg/domain/evidence/db"
	kkeychain "github.com/edubba/edubba/pkg/domain/keychain/db"
	kpipeline "github.com/edubba/edubba/pkg/domain/pipeline/db"
	krun "github.com/edubba/edubba/pkg/domain/run/db"
	kschema "github.com/edubba/edubba/pkg/domain/schema/db"
)

type EdubbaDatabase interface {
	Run() krun.RunInterface
	Claim() kclaim.ClaimInterface
	Decision() kdecision.DecisionInterface
	Evidence() kevidence.EvidenceInterface
	Discussion() kdiscussion.DiscussionInterface
	Consensus() kconsensus.ConsensusInterface
	Pipeline() kpipeline.PipelineInterface
	Schema() kschema.SchemaInterface
	Keychain() kkeychain.KeychainInterface
	Close() error
}
