package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const dataStoreABIJSON = `[
  {"inputs": [{"internalType": "bytes32", "name": "key", "type": "bytes32"}], "name": "getUint", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "bytes32", "name": "key", "type": "bytes32"}], "name": "getInt", "outputs": [{"internalType": "int256", "name": "", "type": "int256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "bytes32", "name": "key", "type": "bytes32"}], "name": "getBool", "outputs": [{"internalType": "bool", "name": "", "type": "bool"}], "stateMutability": "view", "type": "function"}
]`

var (
	dataStoreABI    abi.ABI
	dataStoreOnce   sync.Once
	dataStoreABIErr error
)

func getDataStoreABI() (abi.ABI, error) {
	dataStoreOnce.Do(func() {
		dataStoreABI, dataStoreABIErr = abi.JSON(strings.NewReader(dataStoreABIJSON))
	})
	return dataStoreABI, dataStoreABIErr
}

// Reader reads protocol state from the on-chain DataStore contract via
// eth_call, pinned to one block.
type Reader struct {
	client    *Client
	dataStore common.Address
}

// NewReader creates a DataStore reader.
func NewReader(client *Client, dataStore common.Address) *Reader {
	return &Reader{client: client, dataStore: dataStore}
}

func (r *Reader) call(ctx context.Context, method string, key common.Hash, blockNumber *big.Int) ([]interface{}, error) {
	storeABI, err := getDataStoreABI()
	if err != nil {
		return nil, err
	}

	data, err := storeABI.Pack(method, [32]byte(key))
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &r.dataStore, Data: data}
	resp, err := r.client.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := storeABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s return size %d", method, len(values))
	}
	return values, nil
}

// GetUint reads a uint256 value for the given key.
func (r *Reader) GetUint(ctx context.Context, key common.Hash, blockNumber *big.Int) (*big.Int, error) {
	values, err := r.call(ctx, "getUint", key, blockNumber)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getUint unexpected type %T", values[0])
	}
	return v, nil
}

// GetInt reads an int256 value for the given key.
func (r *Reader) GetInt(ctx context.Context, key common.Hash, blockNumber *big.Int) (*big.Int, error) {
	values, err := r.call(ctx, "getInt", key, blockNumber)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getInt unexpected type %T", values[0])
	}
	return v, nil
}

// GetBool reads a bool value for the given key.
func (r *Reader) GetBool(ctx context.Context, key common.Hash, blockNumber *big.Int) (bool, error) {
	values, err := r.call(ctx, "getBool", key, blockNumber)
	if err != nil {
		return false, err
	}
	v, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("getBool unexpected type %T", values[0])
	}
	return v, nil
}
