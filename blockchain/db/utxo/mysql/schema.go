package mysql

import (
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/dbshared"
)

var utxoSchema = []string{`
CREATE TABLE IF NOT EXISTS ` + "`" + dbshared.UtxoTable + "`" + ` (
  ` + "`block_height`" + ` BIGINT UNSIGNED NOT NULL,
  ` + "`block_hash`" + ` VARCHAR(64) NOT NULL,
  ` + "`tx_hash`" + ` VARCHAR(64) NOT NULL,
  ` + "`tx_index`" + ` INT UNSIGNED NOT NULL,
  ` + "`script_type`" + ` VARCHAR(32) NOT NULL,
  ` + "`address`" + ` VARCHAR(128) NOT NULL,
  ` + "`value`" + ` DECIMAL(24, 8) NOT NULL,
  ` + "`spent`" + ` BOOLEAN NOT NULL DEFAULT FALSE,
  ` + "`spent_height`" + ` BIGINT UNSIGNED DEFAULT NULL,
   PRIMARY KEY (` + "`tx_hash`, `tx_index`" + `),
   KEY ` + dbshared.TxHashIndex + ` (tx_hash),
   KEY ` + dbshared.BlockHeightIndex + ` (block_height),
   KEY ` + dbshared.AddrSpentIndex + ` (address, spent)
);
`}
