package solana

import (
	"context"
	"encoding/binary"
	"fmt"
)

// Upgradeable loader account state, bincode-serialized: a little-endian u32
// enum tag followed by the variant fields.
const (
	stateTagProgram     = 2
	stateTagProgramData = 3

	// ProgramData layout: tag (4) + slot (8) + option flag (1) + upgrade
	// authority pubkey (32), then the ELF bytes.
	programDataOffset = 4 + 8 + 1 + pubkeyLen
)

// programDataAddress extracts the programdata account address from a
// Program-variant account.
func programDataAddress(data []byte) (string, error) {
	if len(data) < 4+pubkeyLen {
		return "", fmt.Errorf("solana: program account too small (%d bytes)", len(data))
	}
	if tag := binary.LittleEndian.Uint32(data[:4]); tag != stateTagProgram {
		return "", fmt.Errorf("solana: unexpected loader state tag %d, want Program", tag)
	}
	return EncodePubkey(data[4 : 4+pubkeyLen])
}

// programELFFromProgramData strips the ProgramData header, returning the raw
// ELF bytes.
func programELFFromProgramData(data []byte) ([]byte, error) {
	if len(data) < programDataOffset {
		return nil, fmt.Errorf("solana: account too small to be a program data account (%d bytes)", len(data))
	}
	if tag := binary.LittleEndian.Uint32(data[:4]); tag != stateTagProgramData {
		return nil, fmt.Errorf("solana: unexpected loader state tag %d, want ProgramData", tag)
	}
	return data[programDataOffset:], nil
}

// ProgramELF resolves a program address to its deployed ELF bytes.
//
// Programs owned by the upgradeable loader store a pointer to a separate
// programdata account, which holds the ELF behind a fixed header. The legacy
// loaders store the ELF directly in the program account.
func (c *Client) ProgramELF(ctx context.Context, programID string) ([]byte, error) {
	acct, err := c.GetAccountInfo(ctx, programID)
	if err != nil {
		return nil, err
	}

	switch acct.Owner {
	case UpgradeableLoaderID:
		dataAddr, err := programDataAddress(acct.Data)
		if err != nil {
			return nil, err
		}
		dataAcct, err := c.GetAccountInfo(ctx, dataAddr)
		if err != nil {
			return nil, fmt.Errorf("solana: fetching program data account: %w", err)
		}
		return programELFFromProgramData(dataAcct.Data)
	case LoaderV1ID, LoaderV2ID:
		return acct.Data, nil
	default:
		return nil, fmt.Errorf("solana: program owner %s is not a supported BPF loader", acct.Owner)
	}
}
