package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

// registerValidators hooks the domain enums into gin's binding layer so
// request structs can tag fields with them directly.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("maintenancetype", func(fl validator.FieldLevel) bool {
		return workflow.MaintenanceType(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("stepstatus", func(fl validator.FieldLevel) bool {
		return workflow.StepStatus(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		return entity.ValidRole(fl.Field().String())
	})
	v.RegisterValidation("acquisitiontype", func(fl validator.FieldLevel) bool {
		return entity.ValidAcquisitionType(fl.Field().String())
	})
	v.RegisterValidation("supplycategory", func(fl validator.FieldLevel) bool {
		return entity.ValidSupplyCategory(fl.Field().String())
	})
}
