package database

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/chatapp-auth/internal/repository"
)

// Closer releases the connections behind a directory.
type Closer func(ctx context.Context) error

func noopCloser(context.Context) error { return nil }

// OpenDirectory connects to the store named by rawURL and returns the
// matching UserDirectory.  SQL backends are migrated first when migrate is
// set.
func OpenDirectory(ctx context.Context, rawURL string, migrate bool, log logrus.FieldLogger) (repository.UserDirectory, Closer, error) {
	backend, err := BackendOf(rawURL)
	if err != nil {
		return nil, nil, err
	}
	log = log.WithField("backend", backend)

	switch backend {
	case BackendMemory:
		log.Warn("using in-memory user directory; data is lost on restart")
		return repository.NewMemoryUserRepo(), noopCloser, nil

	case BackendMongo:
		client, db, err := ConnectMongo(ctx, rawURL)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewMongoUserRepo(ctx, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		log.WithField("database", db.Name()).Info("connected to mongodb")
		return repo, client.Disconnect, nil

	default:
		db, _, err := OpenURL(rawURL)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := Migrate(ctx, db, backend); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			log.Info("migrations applied")
		}
		dialect := repository.DialectMySQL
		if backend == BackendPostgres {
			dialect = repository.DialectPostgres
		}
		log.Info("connected to sql database")
		return repository.NewUserRepo(db, dialect), func(context.Context) error { return db.Close() }, nil
	}
}
