package aw

// AWService implements the run pipeline and the read-side operations over
// recorded runs. All collaborators are injected; the service holds no
// other state and a single instance is not safe for concurrent runs
// against the same working tree, since two overlapping snapshot pairs
// would attribute each other's changes.
type AWService struct {
	database  Database
	vcs       VCS
	agent     Agent
	archive   Archive
	encryptor Encryptor
	staging   StagingArea
	fsmgr     FilesystemManager
	ignore    PathMatcher
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

func NewAWService(
	database Database,
	vcs VCS,
	agent Agent,
	archive Archive,
	encryptor Encryptor,
	staging StagingArea,
	fsmgr FilesystemManager,
	ignore PathMatcher,
	logger Logger,
	clock Clock,
	idgen IDGenerator,
) *AWService {
	return &AWService{
		database:  database,
		vcs:       vcs,
		agent:     agent,
		archive:   archive,
		encryptor: encryptor,
		staging:   staging,
		fsmgr:     fsmgr,
		ignore:    ignore,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}
