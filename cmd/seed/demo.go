package main

import (
	"context"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/domain/documents/purchase"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/domain/setup"
	"bookstock/internal/infrastructure/storage/postgres"
	"bookstock/pkg/logger"
	"bookstock/pkg/numerator"
)

const demoYear = "2026-27"

// seedDemoData fills an empty database with a small working dataset:
// two standards with requirement lists, a handful of students and one
// posted purchase so stock is on hand. Goes through the domain services,
// not raw SQL, so the same invariants apply as in production.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txManager := postgres.NewTxManager(pool)

	itemSvc := item.NewService(postgres.NewItemRepo(txManager))
	studentSvc := student.NewService(postgres.NewStudentRepo(txManager))
	setupSvc := setup.NewService(postgres.NewSetupRepo(txManager), itemSvc, txManager)
	stockSvc := stock.NewService(postgres.NewStockRepo(txManager))
	purchaseSvc := purchase.NewService(
		postgres.NewPurchaseRepo(txManager), stockSvc, itemSvc,
		numerator.New(txManager), txManager,
	)

	// Requirement lists. Items are registered on first mention.
	setups := map[string][]*setup.SetupItem{
		"5": {
			setupLine("5", "English Reader Part 1", 1, "120.00"),
			setupLine("5", "Maths Workbook", 2, "95.00"),
			setupLine("5", "Single Line Notebook", 6, "25.00"),
		},
		"6": {
			setupLine("6", "English Reader Part 2", 1, "130.00"),
			setupLine("6", "Science Activity Book", 1, "150.00"),
			setupLine("6", "Single Line Notebook", 8, "25.00"),
		},
	}
	for standard, lines := range setups {
		if _, err := setupSvc.Save(ctx, standard, demoYear, lines, setup.DuplicateReject); err != nil {
			return err
		}
	}
	log.Infow("requirement lists created", "standards", len(setups))

	students := []*student.Student{
		student.NewStudent("ADM-1001", "Aarav", "5", demoYear),
		student.NewStudent("ADM-1002", "Diya", "5", demoYear),
		student.NewStudent("ADM-1003", "Kabir", "6", demoYear),
	}
	for _, st := range students {
		if err := studentSvc.Create(ctx, st); err != nil {
			if apperror.IsCode(err, apperror.CodeDuplicate) {
				continue
			}
			return err
		}
	}
	log.Infow("students created", "count", len(students))

	// One posted purchase puts stock on hand for the counter.
	doc := purchase.NewPurchaseEntry(demoYear, "City Book Depot", time.Now().UTC())
	doc.InvoiceNo = "CBD-0042"
	doc.AddLine(id.Nil(), "English Reader Part 1", 50, types.MustMoney("110.00"))
	doc.AddLine(id.Nil(), "Maths Workbook", 80, types.MustMoney("85.00"))
	doc.AddLine(id.Nil(), "Single Line Notebook", 400, types.MustMoney("20.00"))
	doc.AddLine(id.Nil(), "English Reader Part 2", 40, types.MustMoney("118.00"))
	doc.AddLine(id.Nil(), "Science Activity Book", 40, types.MustMoney("135.00"))

	if err := purchaseSvc.Create(ctx, doc); err != nil {
		return err
	}
	if err := purchaseSvc.Post(ctx, doc.ID); err != nil {
		return err
	}
	log.Infow("demo purchase posted", "number", doc.Number)

	return nil
}

func setupLine(standard, name string, qty int, amount string) *setup.SetupItem {
	return setup.NewSetupItem(standard, demoYear, id.Nil(), name, qty, types.MustMoney(amount))
}

