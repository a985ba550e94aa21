package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
)

// Compile-time check to ensure PostgresSource implements CatalogSource
var _ interfaces.CatalogSource = (*PostgresSource)(nil)

// OpenPostgres opens a connection pool to the collaborator's database and
// verifies it is reachable
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return db, nil
}

// PostgresSource reads the catalog straight from the collaborator's
// stores and medicines tables
type PostgresSource struct {
	db   *sql.DB
	goqu *goqu.Database
}

// NewPostgresSource creates a source over an open database
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{
		db:   db,
		goqu: goqu.New("postgres", db),
	}
}

func (s *PostgresSource) Name() string {
	return "postgres"
}

// FetchStores loads every store, then every medicine, and attaches medicines
// to their store keeping insertion order
func (s *PostgresSource) FetchStores(ctx context.Context) ([]entities.Store, error) {
	stores, index, err := s.fetchStores(ctx)
	if err != nil {
		return nil, Unavailable(s.Name(), err)
	}

	if err := s.attachMedicines(ctx, stores, index); err != nil {
		return nil, Unavailable(s.Name(), err)
	}

	return stores, nil
}

func (s *PostgresSource) fetchStores(ctx context.Context) ([]entities.Store, map[string]int, error) {
	query, args, err := s.goqu.From("stores").
		Select("id", "name", "address", "contact_number", "latitude", "longitude").
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build stores query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []entities.Store{}
	index := make(map[string]int)
	for rows.Next() {
		var store entities.Store
		var address, contact sql.NullString

		if err := rows.Scan(
			&store.ID,
			&store.Name,
			&address,
			&contact,
			&store.Location.Latitude,
			&store.Location.Longitude,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan store: %w", err)
		}

		store.Address = address.String
		store.ContactNumber = contact.String
		store.Medicines = []entities.Medicine{}

		index[store.ID] = len(stores)
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return stores, index, nil
}

func (s *PostgresSource) attachMedicines(ctx context.Context, stores []entities.Store, index map[string]int) error {
	query, args, err := s.goqu.From("medicines").
		Select("id", "store_id", "name", "manufacturer", "batch_number", "expiry_date", "price", "stock").
		Order(goqu.I("store_id").Asc(), goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build medicines query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list medicines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var med entities.Medicine
		var storeID string
		var manufacturer, batch sql.NullString
		var expiry sql.NullTime

		if err := rows.Scan(
			&med.ID,
			&storeID,
			&med.Name,
			&manufacturer,
			&batch,
			&expiry,
			&med.Price,
			&med.Stock,
		); err != nil {
			return fmt.Errorf("failed to scan medicine: %w", err)
		}

		med.Manufacturer = manufacturer.String
		med.BatchNumber = batch.String
		if expiry.Valid {
			med.ExpiryDate = entities.NewDate(expiry.Time.Date())
		}

		// Medicines of deleted stores can linger until the collaborator cleans up
		i, ok := index[storeID]
		if !ok {
			continue
		}
		stores[i].Medicines = append(stores[i].Medicines, med)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate medicines: %w", err)
	}

	return nil
}
