package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/squizz-sync/backend/docs"
)

// DocsPath is where the Swagger UI and doc.json are served
const DocsPath = "/swagger/*any"

// MountDocs serves the API documentation behind protect.
func MountDocs(engine *gin.Engine, protect gin.HandlerFunc) {
	engine.GET(DocsPath, protect, ginSwagger.WrapHandler(swaggerFiles.Handler))
}
