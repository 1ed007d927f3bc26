// Package authguard holds the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g internal/authguard/http/router.go -o api/authguard
package authguard

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process runs.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {
                            "$ref": "#/definitions/authsdk.HealthResponse"
                        }
                    }
                },
                "summary": "Health Check Endpoint",
                "tags": [
                    "Health"
                ]
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe that also pings the user database.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {
                            "$ref": "#/definitions/authsdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "database unreachable",
                        "schema": {
                            "$ref": "#/definitions/authsdk.HealthResponse"
                        }
                    }
                },
                "summary": "Readiness Check Endpoint",
                "tags": [
                    "Health"
                ]
            }
        },
        "/v1/auth/login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Checks email and password. MFA users get requiresMfa and a temporary token instead of a session.",
                "parameters": [
                    {
                        "description": "Credentials",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.LoginRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Session, or temporary token when MFA is required",
                        "schema": {
                            "$ref": "#/definitions/authsdk.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "summary": "Login",
                "tags": [
                    "Auth"
                ]
            }
        },
        "/v1/auth/me": {
            "get": {
                "description": "Returns the authenticated user. MFA users need an MFA-verified session.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "User",
                        "schema": {
                            "$ref": "#/definitions/authsdk.User"
                        }
                    },
                    "401": {
                        "description": "Invalid token or MFA verification required",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "User no longer exists",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Current user",
                "tags": [
                    "Auth"
                ]
            }
        },
        "/v1/auth/mfa/backup-codes/regenerate": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Replaces every backup code after checking a TOTP code. The new codes are shown once.",
                "parameters": [
                    {
                        "description": "TOTP code",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.RegenerateBackupCodesRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "New backup codes",
                        "schema": {
                            "$ref": "#/definitions/authsdk.BackupCodesResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request or MFA not enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid token or code",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Regenerate backup codes",
                "tags": [
                    "MFA"
                ]
            }
        },
        "/v1/auth/mfa/disable": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Turns MFA off. Needs the account password and a current TOTP code.",
                "parameters": [
                    {
                        "description": "TOTP code and password",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.DisableMFARequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Disabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request, MFA not enabled or no password set",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid token, password or code",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Disable MFA",
                "tags": [
                    "MFA"
                ]
            }
        },
        "/v1/auth/mfa/enable": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Confirms a pending setup with a code from the authenticator app.",
                "parameters": [
                    {
                        "description": "TOTP code",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.EnableMFARequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.MessageResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request, setup not initiated or already enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid token or code",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Enable MFA",
                "tags": [
                    "MFA"
                ]
            }
        },
        "/v1/auth/mfa/setup": {
            "post": {
                "description": "Issues a TOTP secret, QR code and ten backup codes. MFA stays off until enabled.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Secret, QR code and backup codes (shown once)",
                        "schema": {
                            "$ref": "#/definitions/authsdk.MFASetupResponse"
                        }
                    },
                    "400": {
                        "description": "MFA already enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid or missing access token",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Start MFA setup",
                "tags": [
                    "MFA"
                ]
            }
        },
        "/v1/auth/mfa/status": {
            "get": {
                "description": "Reports whether MFA is enabled or pending and how many backup codes are left.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Status",
                        "schema": {
                            "$ref": "#/definitions/authsdk.MFAStatusResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid or missing access token",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "MFA status",
                "tags": [
                    "MFA"
                ]
            }
        },
        "/v1/auth/mfa/verify": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Completes an MFA-pending login with a TOTP code or a backup code.",
                "parameters": [
                    {
                        "description": "Temporary token and code",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.VerifyMFARequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "MFA-verified session",
                        "schema": {
                            "$ref": "#/definitions/authsdk.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request or MFA not enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid temporary token or code",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "summary": "Verify MFA",
                "tags": [
                    "Auth"
                ]
            }
        },
        "/v1/auth/refresh": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Trades a refresh token for a new access token and a rotated refresh token.",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.RefreshRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "New tokens",
                        "schema": {
                            "$ref": "#/definitions/authsdk.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid or expired refresh token",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "501": {
                        "description": "Refresh tokens not enabled",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "summary": "Refresh",
                "tags": [
                    "Auth"
                ]
            }
        },
        "/v1/auth/register": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Creates a password account with MFA off and returns a session.",
                "parameters": [
                    {
                        "description": "Account details",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/authsdk.RegisterRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Access token and user",
                        "schema": {
                            "$ref": "#/definitions/authsdk.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Email already registered",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/authsdk.ErrorResponse"
                        }
                    }
                },
                "summary": "Register",
                "tags": [
                    "Auth"
                ]
            }
        }
    },
    "definitions": {
        "authsdk.AuthResponse": {
            "properties": {
                "accessToken": {
                    "type": "string"
                },
                "expiresIn": {
                    "example": 900,
                    "type": "integer"
                },
                "message": {
                    "example": "MFA verification required",
                    "type": "string"
                },
                "refreshToken": {
                    "type": "string"
                },
                "requiresMfa": {
                    "type": "boolean"
                },
                "tempToken": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/authsdk.User"
                }
            },
            "type": "object"
        },
        "authsdk.BackupCodesResponse": {
            "properties": {
                "backupCodes": {
                    "items": {
                        "type": "string"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "authsdk.DisableMFARequest": {
            "properties": {
                "code": {
                    "example": "123456",
                    "type": "string"
                },
                "password": {
                    "example": "pw123456",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.EnableMFARequest": {
            "properties": {
                "code": {
                    "example": "123456",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.ErrorResponse": {
            "properties": {
                "error": {
                    "example": "invalid_credentials",
                    "type": "string"
                },
                "error_description": {
                    "example": "invalid credentials",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.HealthChecks": {
            "properties": {
                "database": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.HealthResponse": {
            "properties": {
                "checks": {
                    "$ref": "#/definitions/authsdk.HealthChecks"
                },
                "status": {
                    "type": "string"
                },
                "uptime": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.LoginRequest": {
            "properties": {
                "email": {
                    "example": "alice@example.com",
                    "type": "string"
                },
                "password": {
                    "example": "pw123456",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.MFASetupResponse": {
            "properties": {
                "backupCodes": {
                    "items": {
                        "type": "string"
                    },
                    "type": "array"
                },
                "otpauthUrl": {
                    "example": "otpauth://totp/authguard:alice@example.com?secret=...",
                    "type": "string"
                },
                "qrCode": {
                    "example": "data:image/png;base64,...",
                    "type": "string"
                },
                "secret": {
                    "example": "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.MFAStatusResponse": {
            "properties": {
                "backupCodesRemaining": {
                    "example": 10,
                    "type": "integer"
                },
                "enabled": {
                    "type": "boolean"
                },
                "pending": {
                    "type": "boolean"
                }
            },
            "type": "object"
        },
        "authsdk.MessageResponse": {
            "properties": {
                "message": {
                    "example": "MFA enabled successfully",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.RefreshRequest": {
            "properties": {
                "refreshToken": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.RegenerateBackupCodesRequest": {
            "properties": {
                "code": {
                    "example": "123456",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.RegisterRequest": {
            "properties": {
                "email": {
                    "example": "alice@example.com",
                    "type": "string"
                },
                "name": {
                    "example": "Alice",
                    "type": "string"
                },
                "password": {
                    "example": "pw123456",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.User": {
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "email": {
                    "example": "alice@example.com",
                    "type": "string"
                },
                "id": {
                    "example": 1,
                    "type": "integer"
                },
                "mfaEnabled": {
                    "type": "boolean"
                },
                "name": {
                    "example": "Alice",
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "authsdk.VerifyMFARequest": {
            "properties": {
                "code": {
                    "example": "123456",
                    "type": "string"
                },
                "tempToken": {
                    "type": "string"
                }
            },
            "type": "object"
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "authguard API",
	Description:      "Password login, JWT sessions and TOTP multi-factor authentication with single-use backup codes.\n\nTokens are HS256 JWTs. Temporary tokens returned by login for MFA users are only accepted by /v1/auth/mfa/verify.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
