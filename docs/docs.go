// Package docs регистрирует Swagger-документ для swag и http-swagger.
// Документ собирается из реестра маршрутов при старте и подставляется через Set.
package docs

import (
	"sync/atomic"

	"github.com/swaggo/swag"
)

// @title       Appnity API
// @version     1.0
// @description API сайта Appnity: блог, продукты, портфолио, обучение, вакансии, отзывы, обращения и рассылка.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var current atomic.Pointer[string]

type document struct{}

func (document) ReadDoc() string {
	if doc := current.Load(); doc != nil {
		return *doc
	}
	return `{"swagger":"2.0","info":{"title":"Appnity API","version":"1.0"},"paths":{}}`
}

// Set подменяет отдаваемый документ.
func Set(doc []byte) {
	s := string(doc)
	current.Store(&s)
}

func init() {
	swag.Register(swag.Name, document{})
}
