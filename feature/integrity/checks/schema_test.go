package checks

import (
	"context"
	"regexp"
	"testing"

	"variant-manager/core/database"
	"variant-manager/feature/variant/models"
	"variant-manager/feature/variant/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestCheckSchema_Migrated(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, store.New(db).Migrate(context.Background()))

	report, err := CheckSchema(db, models.All())
	require.NoError(t, err)

	assert.True(t, report.Matched, "errors: %v tables: %v", report.Errors, report.Tables)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.Tables, 4)
	assert.Equal(t, "ok", report.Tables["items"].Status)
}

func TestCheckSchema_Drift(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.Exec("CREATE TABLE items (id varchar(36), item_code integer)").Error)

	report, err := CheckSchema(db, []any{&models.Item{}, &models.ItemAttribute{}})
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Contains(t, report.Errors, "Table item_attributes does not exist")

	items := report.Tables["items"]
	assert.Equal(t, "error", items.Status)
	assert.Contains(t, items.MissingColumns, "variant_of")
	assert.Contains(t, items.MissingColumns, "item_name")
	assert.NotContains(t, items.MissingColumns, "id")
	assert.Equal(t, []string{"item_code: expected varchar(140), got integer"}, items.TypeMismatches)
}

func TestCheckSchema_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("name", "VARCHAR(140)", "NO", "PRI", nil, "").
		AddRow("numeric_values", "tinyint(1)", "YES", "", nil, "").
		AddRow("from_range", "decimal(10,2)", "YES", "", nil, "")
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `item_attributes`")).WillReturnRows(rows)

	report, err := CheckSchema(db, []any{&models.ItemAttribute{}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	tbl := report.Tables["item_attributes"]
	assert.False(t, report.Matched)
	assert.ElementsMatch(t, []string{"to_range", "increment"}, tbl.MissingColumns)
	assert.Equal(t, []string{"from_range: expected decimal(21,9), got decimal(10,2)"}, tbl.TypeMismatches)
}

func TestCheckSchema_Invalid(t *testing.T) {
	_, err := CheckSchema(nil, models.All())
	assert.Error(t, err)

	db := openSQLite(t)
	_, err = CheckSchema(db, []any{"items"})
	assert.Error(t, err)

	type untabled struct {
		Name string `gorm:"column:name"`
	}
	_, err = CheckSchema(db, []any{untabled{}})
	assert.ErrorContains(t, err, "TableName")
}

func TestParseGormTags(t *testing.T) {
	tag := "column:item_code;type:varchar(140);uniqueIndex;not null"
	assert.Equal(t, "item_code", parseGormColumn(tag))
	assert.Equal(t, "varchar(140)", parseGormType(tag))
	assert.Equal(t, "", parseGormType("column:disabled"))
	assert.Equal(t, "", parseGormColumn("foreignKey:ParentID;references:ID"))
}
