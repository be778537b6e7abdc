// Package service provides business logic for the statement importer.
// It is organized into sub-packages for different concerns:
// - account: Bank account management
// - auth: Token issuing and claim extraction
// - user: User management and profile completion
// - imports: Statement imports
// - export: Exports for external finance tools
//
// To use services, import the specific sub-package:
//
//	import "github.com/amirasaad/txnimport/pkg/service/account"
//	import "github.com/amirasaad/txnimport/pkg/service/imports"
package service

import (
	_ "github.com/amirasaad/txnimport/pkg/service/account"
	_ "github.com/amirasaad/txnimport/pkg/service/auth"
	_ "github.com/amirasaad/txnimport/pkg/service/export"
	_ "github.com/amirasaad/txnimport/pkg/service/imports"
	_ "github.com/amirasaad/txnimport/pkg/service/user"
)
