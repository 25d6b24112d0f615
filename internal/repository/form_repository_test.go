package repository

import (
	"strings"
	"testing"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/forms?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestByRefScope(t *testing.T) {
	db := dryRunDB(t)
	tests := []struct {
		ref  model.FormRef
		want string
	}{
		{model.SlugRef("geo"), "slug = ?"},
		{model.SystemRef("2f1c"), "id = ?"},
	}
	for _, tc := range tests {
		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var f model.Form
			return tx.Scopes(byRef(tc.ref)).Take(&f)
		})
		if !strings.Contains(sql, strings.Replace(tc.want, "?", "'"+tc.ref.Value+"'", 1)) {
			t.Fatalf("%v: sql = %s", tc.ref, sql)
		}
	}
}

func TestResponseListOrder(t *testing.T) {
	db := dryRunDB(t)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rs []model.FormResponse
		return tx.Model(&model.FormResponse{}).Where("form_id = ?", "abc").Order("submitted_at desc").Find(&rs)
	})
	if !strings.Contains(sql, "ORDER BY submitted_at desc") || !strings.Contains(sql, "form_id = 'abc'") {
		t.Fatalf("sql = %s", sql)
	}
}
