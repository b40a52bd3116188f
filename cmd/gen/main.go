package main

import (
	"ptbook/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.CredentialModel{},
		model.RefreshTokenModel{},
		model.ProductModel{},
		model.PointBatchModel{},
		model.AppointmentModel{},
		model.AppointmentLogModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
