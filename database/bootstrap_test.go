package database

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"agrovision/entities"
)

func TestOpenMemoryIsolated(t *testing.T) {
	a, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	b, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	if err := a.Create(&entities.Client{Name: "A", Email: "a@x.com"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var n int64
	b.Model(&entities.Client{}).Count(&n)
	if n != 0 {
		t.Errorf("second database sees %d clients, want 0", n)
	}
}

func TestUniqueIndexesIgnoreSoftDeleted(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	first := &entities.Client{Name: "A", Email: "dup@x.com", TaxDocument: "111.111.111-11"}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == "" {
		t.Fatal("BeforeCreate did not assign an id")
	}

	err = db.Create(&entities.Client{Name: "B", Email: "dup@x.com"}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate email error = %v, want unique violation", err)
	}
	err = db.Create(&entities.Client{Name: "C", Email: "c@x.com", TaxDocument: "111.111.111-11"}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate document error = %v, want unique violation", err)
	}
	// empty documents never collide
	if err := db.Create(&entities.Client{Name: "D", Email: "d@x.com"}).Error; err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if err := db.Create(&entities.Client{Name: "E", Email: "e@x.com"}).Error; err != nil {
		t.Fatalf("second empty document: %v", err)
	}

	if err := db.Delete(first).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := db.Create(&entities.Client{Name: "A2", Email: "dup@x.com", TaxDocument: "111.111.111-11"}).Error; err != nil {
		t.Fatalf("re-create after soft delete: %v", err)
	}

	var got entities.Client
	err = db.First(&got, "id = ?", first.ID).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("soft-deleted row visible: %v", err)
	}
	if err := db.Unscoped().First(&got, "id = ?", first.ID).Error; err != nil {
		t.Errorf("Unscoped lookup: %v", err)
	}
}
