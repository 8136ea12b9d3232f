// Package docs registers the OpenAPI description of the HTTP surface with
// swag so gin-swagger can serve it under /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "/",
    "consumes": ["application/json", "text/csv"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "SessionKey": {"type": "apiKey", "in": "header", "name": "X-Session-Key"},
        "OrganizationID": {"type": "apiKey", "in": "header", "name": "X-Organization-ID"}
    },
    "paths": {
        "/api/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Open a session for valid credentials",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {
                    "200": {"description": "Session opened", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Delete a session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SessionKeyRequest"}}],
                "responses": {
                    "200": {"description": "Logged out", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account bound to an organization",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInput"}}],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Username taken", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/sync/products": {
            "post": {
                "tags": ["sync"],
                "summary": "Store or update a product batch",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "consumes": ["application/json", "text/csv"],
                "parameters": [
                    {"$ref": "#/parameters/mode"},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/Product"}}}
                ],
                "responses": {
                    "200": {"description": "Batch processed", "schema": {"$ref": "#/definitions/BatchResponse"}},
                    "400": {"description": "Invalid batch", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Session missing or expired", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/sync/prices": {
            "post": {
                "tags": ["sync"],
                "summary": "Store or update a price batch",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "consumes": ["application/json", "text/csv"],
                "parameters": [
                    {"$ref": "#/parameters/mode"},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/Price"}}}
                ],
                "responses": {
                    "200": {"description": "Batch processed", "schema": {"$ref": "#/definitions/BatchResponse"}},
                    "400": {"description": "Invalid batch", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Session missing or expired", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/sync/catalog": {
            "post": {
                "tags": ["sync"],
                "summary": "Pull products and prices from the platform",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "responses": {
                    "200": {"description": "Catalog reconciled", "schema": {"$ref": "#/definitions/Response"}},
                    "502": {"description": "Platform request failed", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Platform not configured", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/sync/jobs": {
            "get": {
                "tags": ["sync"],
                "summary": "List finished scheduled sync attempts",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "responses": {
                    "200": {"description": "Attempts, oldest first", "schema": {"$ref": "#/definitions/SyncJobListResponse"}},
                    "503": {"description": "Scheduled sync disabled", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["sync"],
                "summary": "Queue a catalog sync now",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "responses": {
                    "202": {"description": "Sync queued", "schema": {"$ref": "#/definitions/Response"}},
                    "409": {"description": "A sync is already queued", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Scheduled sync disabled", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/products/{keyProductID}": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product by its platform key",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "parameters": [{"in": "path", "name": "keyProductID", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Product", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/products/{keyProductID}/prices": {
            "get": {
                "tags": ["products"],
                "summary": "List the stored prices of a product",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "parameters": [{"in": "path", "name": "keyProductID", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Prices", "schema": {"$ref": "#/definitions/Response"}}
                }
            }
        },
        "/api/v1/lookup/barcode/{barcode}": {
            "get": {
                "tags": ["products"],
                "summary": "Find a product and its price by barcode",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "parameters": [{"in": "path", "name": "barcode", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Product with price", "schema": {"$ref": "#/definitions/ProductPriceResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/lookup/code/{code}": {
            "get": {
                "tags": ["products"],
                "summary": "Find a product and its price by product code",
                "security": [{"SessionKey": [], "OrganizationID": []}],
                "parameters": [{"in": "path", "name": "code", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Product with price", "schema": {"$ref": "#/definitions/ProductPriceResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/purchase": {
            "post": {
                "tags": ["orders"],
                "summary": "Submit a purchase order to the supplier",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PurchaseInput"}}],
                "responses": {
                    "200": {"description": "Platform submission result", "schema": {"$ref": "#/definitions/OrderSubmission"}},
                    "400": {"description": "Invalid order", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Session missing or expired", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/history": {
            "get": {
                "tags": ["orders"],
                "summary": "List the orders of the session's organization",
                "parameters": [{"$ref": "#/parameters/sessionID"}],
                "responses": {
                    "200": {"description": "Order summaries", "schema": {"type": "array", "items": {"$ref": "#/definitions/OrderSummary"}}},
                    "400": {"description": "session_id missing", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["orders"],
                "summary": "List the orders of the session's organization",
                "parameters": [{"$ref": "#/parameters/sessionID"}],
                "responses": {
                    "200": {"description": "Order summaries", "schema": {"type": "array", "items": {"$ref": "#/definitions/OrderSummary"}}},
                    "400": {"description": "session_id missing", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Database reachability",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"$ref": "#/definitions/HealthResponse"}},
                    "503": {"description": "Database unreachable", "schema": {"$ref": "#/definitions/HealthResponse"}}
                }
            }
        }
    },
    "parameters": {
        "mode": {"in": "query", "name": "mode", "type": "string", "enum": ["store", "update"], "default": "update"},
        "sessionID": {"in": "query", "name": "session_id", "type": "string", "required": true}
    },
    "definitions": {
        "Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/ErrorInfo"}
            }
        },
        "ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "ERR_INVALID_INPUT"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/ValidationDetail"}}
            }
        },
        "ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "lines[0].keyProductID"},
                "message": {"type": "string"}
            }
        },
        "LoginInput": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string", "format": "password"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "sessionKey": {"type": "string"},
                        "organizationId": {"type": "string"}
                    }
                }
            }
        },
        "RegisterInput": {
            "type": "object",
            "required": ["username", "password", "organizationId"],
            "properties": {
                "username": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "format": "password", "maxLength": 72},
                "organizationId": {"type": "string"}
            }
        },
        "SessionKeyRequest": {
            "type": "object",
            "required": ["sessionKey"],
            "properties": {
                "sessionKey": {"type": "string"}
            }
        },
        "Product": {
            "type": "object",
            "required": ["keyProductID"],
            "properties": {
                "keyProductID": {"type": "string"},
                "barcode": {"type": "string"},
                "barcodeInner": {"type": "string"},
                "description1": {"type": "string"},
                "description2": {"type": "string"},
                "description3": {"type": "string"},
                "description4": {"type": "string"},
                "internalID": {"type": "string"},
                "brand": {"type": "string"},
                "height": {"type": "string", "format": "decimal"},
                "depth": {"type": "string", "format": "decimal"},
                "width": {"type": "string", "format": "decimal"},
                "weight": {"type": "string", "format": "decimal"},
                "volume": {"type": "string", "format": "decimal"},
                "productCondition": {"type": "string"},
                "isPriceTaxInclusive": {"type": "string", "enum": ["Y", "N"]},
                "isKitted": {"type": "string", "enum": ["Y", "N"]},
                "keyTaxcodeID": {"type": "string"},
                "stockQuantity": {"type": "string", "format": "decimal"},
                "name": {"type": "string"},
                "kitProductsSetPrice": {"type": "string", "format": "decimal"},
                "productCode": {"type": "string"},
                "productSearchCode": {"type": "string"},
                "stockLowQuantity": {"type": "string", "format": "decimal"},
                "averageCost": {"type": "string", "format": "decimal"},
                "drop": {"type": "string"},
                "packQuantity": {"type": "string", "format": "decimal"},
                "keySellUnitID": {"type": "string"}
            }
        },
        "Price": {
            "type": "object",
            "required": ["keyProductID", "price"],
            "properties": {
                "keyProductID": {"type": "string"},
                "keySellUnitID": {"type": "string"},
                "price": {"type": "string", "format": "decimal"},
                "referenceID": {"type": "string"},
                "referenceType": {"type": "string"}
            }
        },
        "BatchResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "message": {"type": "string", "example": "successfully updated products"},
                "data": {
                    "type": "object",
                    "properties": {
                        "failed": {"type": "array", "items": {"type": "string"}, "example": ["P1 error: product does not exist"]}
                    }
                }
            }
        },
        "SyncJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "trigger": {"type": "string", "enum": ["interval", "startup", "manual"]},
                "status": {"type": "string", "enum": ["PENDING", "RUNNING", "SUCCESS", "PARTIAL", "FAILED"]},
                "error": {"type": "string"},
                "product_failures": {"type": "integer"},
                "price_failures": {"type": "integer"},
                "retry_count": {"type": "integer"},
                "max_retries": {"type": "integer"},
                "next_retry_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"},
                "started_at": {"type": "string", "format": "date-time"},
                "completed_at": {"type": "string", "format": "date-time"}
            }
        },
        "SyncJobListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/SyncJob"}}
            }
        },
        "ProductPriceResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "integer"},
                        "barcode": {"type": "string"},
                        "productName": {"type": "string"},
                        "productCode": {"type": "string"},
                        "keyProductID": {"type": "string"},
                        "price": {"type": "string", "format": "decimal"}
                    }
                }
            }
        },
        "OrderLine": {
            "type": "object",
            "required": ["keyProductID"],
            "properties": {
                "lineType": {"type": "string"},
                "keyProductID": {"type": "string"},
                "productCode": {"type": "string"},
                "productName": {"type": "string"},
                "keySellUnitID": {"type": "string"},
                "quantity": {"type": "string", "format": "decimal"},
                "unitPrice": {"type": "string", "format": "decimal"},
                "priceTotalExTax": {"type": "string", "format": "decimal"}
            }
        },
        "PurchaseInput": {
            "type": "object",
            "required": ["sessionKey", "lines"],
            "properties": {
                "sessionKey": {"type": "string"},
                "lines": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/OrderLine"}}
            }
        },
        "OrderSubmission": {
            "type": "object",
            "properties": {
                "result": {"type": "string"},
                "resultCode": {"type": "string"},
                "keyPurchaseOrderID": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "OrderSummary": {
            "type": "object",
            "properties": {
                "keyPurchaseOrderID": {"type": "string"},
                "supplierOrgId": {"type": "string"},
                "createdDate": {"type": "string", "format": "date-time"},
                "totalExTax": {"type": "string", "format": "decimal"},
                "billStatus": {"type": "string"}
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "database": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "SQUIZZ Sync API",
	Description:      "Catalog reconciliation, sessions and purchase orders against the SQUIZZ platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
