package table

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sheetRow stores one spreadsheet row as a JSON array of cells
type sheetRow struct {
	ID     uint   `gorm:"primaryKey"`
	Sheet  string `gorm:"uniqueIndex:idx_sheet_row;not null"`
	RowNum int    `gorm:"uniqueIndex:idx_sheet_row;not null"`
	Cells  string `gorm:"not null"`
}

func (sheetRow) TableName() string {
	return "sheet_rows"
}

// SQLite is a Store backed by a local SQLite database, laid out like a
// spreadsheet so the same ranges work against it
type SQLite struct {
	db *gorm.DB
}

// NewSQLite opens the database at path and migrates its schema
func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&sheetRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying connection pool
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLite) Get(ctx context.Context, ref string) ([][]string, error) {
	r, err := ParseRange(ref)
	if err != nil {
		return nil, err
	}

	rows, err := loadSheet(s.db.WithContext(ctx), r.Sheet)
	if err != nil {
		return nil, err
	}
	return window(rows, r), nil
}

func (s *SQLite) Append(ctx context.Context, ref string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrEmptyRange
	}
	r, err := ParseRange(ref)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := loadSheet(tx, r.Sheet)
		if err != nil {
			return err
		}
		at := lastFilled(sheet, r.StartRow-1)
		return saveRows(tx, r.Sheet, place(sheet, at, r.StartCol-1, rows), at, len(rows))
	})
}

func (s *SQLite) Update(ctx context.Context, ref string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrEmptyRange
	}
	r, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if r.EndRow > 0 && r.EndRow-r.StartRow+1 < len(rows) {
		return fmt.Errorf("update of %d rows does not fit range %s", len(rows), ref)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := loadSheet(tx, r.Sheet)
		if err != nil {
			return err
		}
		at := r.StartRow - 1
		return saveRows(tx, r.Sheet, place(sheet, at, r.StartCol-1, rows), at, len(rows))
	})
}

// loadSheet returns the rows of a sheet indexed from row 1, with gaps as nil
func loadSheet(db *gorm.DB, sheet string) ([][]string, error) {
	var stored []sheetRow
	if err := db.Where(&sheetRow{Sheet: sheet}).Order("row_num").Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	var rows [][]string
	for _, sr := range stored {
		var cells []string
		if err := json.Unmarshal([]byte(sr.Cells), &cells); err != nil {
			return nil, fmt.Errorf("failed to decode %s row %d: %w", sheet, sr.RowNum, err)
		}
		for len(rows) < sr.RowNum-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// saveRows upserts count rows of the sheet starting at the 0-indexed row from
func saveRows(db *gorm.DB, sheet string, rows [][]string, from, count int) error {
	for i := from; i < from+count; i++ {
		cells := rows[i]
		if cells == nil {
			cells = []string{}
		}
		data, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("failed to encode %s row %d: %w", sheet, i+1, err)
		}

		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sheet"}, {Name: "row_num"}},
			DoUpdates: clause.AssignmentColumns([]string{"cells"}),
		}).Create(&sheetRow{Sheet: sheet, RowNum: i + 1, Cells: string(data)}).Error
		if err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
