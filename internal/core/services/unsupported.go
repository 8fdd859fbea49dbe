package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/logger"
)

// UnsupportedOperations lists host operations that exist in the contract
// but are not available here. Each fails with domain.ErrNotSupported.
var UnsupportedOperations = []string{
	"getVersion",
	"getTableList",
	"isDBExists",
	"isDBOpen",
	"isDatabase",
	"deleteDatabase",
	"isJsonValid",
	"importFromJson",
	"exportToJson",
	"createSyncTable",
	"setSyncDate",
	"getSyncDate",
	"deleteExportedRows",
	"addUpgradeStatement",
	"copyFromAssets",
	"getFromHTTPRequest",
	"getDatabaseList",
	"getUrl",
	"getMigratableDbList",
	"addSQLiteSuffix",
	"deleteOldDatabases",
	"moveDatabasesAndAddSuffix",
	"getFromLocalDiskToStore",
	"saveToLocalDisk",
	"isSecretStored",
	"setEncryptionSecret",
	"changeEncryptionSecret",
	"clearEncryptionSecret",
	"checkEncryptionSecret",
	"getNCDatabasePath",
	"createNCConnection",
	"closeNCConnection",
	"isNCDatabase",
	"isDatabaseEncrypted",
	"isInConfigEncryption",
	"isInConfigBiometricAuth",
}

// IsUnsupported reports whether op is one of UnsupportedOperations.
func IsUnsupported(op string) bool {
	return slices.Contains(UnsupportedOperations, op)
}

// Unsupported returns the error for a call to an unavailable operation.
func Unsupported(op string) error {
	logger.Debug("%s called but not supported", op)
	return fmt.Errorf("%s: %w", op, domain.ErrNotSupported)
}
