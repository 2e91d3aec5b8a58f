package domain

// domain package contains the Domain Models and Interfaces of the Edubba annotation engine.
//
// `domain/edubba` package exposes the root object of the engine.
// Entrypoints of applications should instantiate the Edubba object and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and pure functions over them.
// For example, `domain/claim.go` contains the `Claim` entity.
//
// `domain/ENTITY` directory contains the "physical" representation of the domain entities in the RDB.
// For example, `domain/claim/db` contains the database interface of the claim entity described in `domain/claim.go`,
// and `domain/claim/db/postgres` its PostgreSQL implementation.
//
// # Entities
//
// Core entities in the domain are:
//
// - `run`: provenance record for a batch of annotation work.
// Every Claim is produced by exactly one Run, so who (or what model) asserted something is never lost.
//
// - `claim`: an immutable assertion about one target entity of the corpus
// (a sign's reading, a token's lemma, a line's translation, a proposed fragment join,
// an entity mention, or a relationship between entities).
// Claims are never updated nor deleted; competing Claims about the same target coexist.
//
// - `decision`: an adjudication event accepting/rejecting/deferring a Claim.
// Decisions form a supersession chain per Claim; the newest non-superseded one is the "head".
// Recording a Decision also settles which Claim of the target is consensus, atomically.
//
// - `evidence`: append-only supporting/contesting material attached to a Claim.
//
// - `discussion`: deliberation threads tied to a Claim, resolvable into a Decision.
//
// - `consensus`: the read path answering "what is true now" for a target.
// It holds no state of its own; everything it serves is re-derivable from Claims and Decisions.
//
// - `pipeline`: per-artifact rollup of consensus coverage across processing layers,
// recomputed asynchronously by the `pipeline` loop (see `cmd/loops/tasks`).
//
// And others:
//
// - `keychain`: manages signing keys for run tokens, persisted in the database.
//
// - `schema`: versioned database schema repository and its upgrade protocol.
