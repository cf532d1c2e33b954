package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const tokenABIJSON = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const escrowABIJSON = `[
  {"type":"function","name":"createOrder","stateMutability":"nonpayable","inputs":[{"name":"supplier","type":"address"},{"name":"validator","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"confirmDelivery","stateMutability":"nonpayable","inputs":[{"name":"orderId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdrawFunds","stateMutability":"nonpayable","inputs":[{"name":"orderId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"cancelOrder","stateMutability":"nonpayable","inputs":[{"name":"orderId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getOrder","stateMutability":"view","inputs":[{"name":"orderId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[
    {"name":"purchaser","type":"address"},
    {"name":"supplier","type":"address"},
    {"name":"validator","type":"address"},
    {"name":"amount","type":"uint256"},
    {"name":"state","type":"uint8"}
  ]}]},
  {"type":"function","name":"nextOrderId","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"OrderCreated","anonymous":false,"inputs":[{"name":"orderId","type":"uint256","indexed":true},{"name":"purchaser","type":"address","indexed":true},{"name":"supplier","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"DeliveryConfirmed","anonymous":false,"inputs":[{"name":"orderId","type":"uint256","indexed":true},{"name":"validator","type":"address","indexed":true}]},
  {"type":"event","name":"FundsWithdrawn","anonymous":false,"inputs":[{"name":"orderId","type":"uint256","indexed":true},{"name":"supplier","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"OrderCanceled","anonymous":false,"inputs":[{"name":"orderId","type":"uint256","indexed":true}]}
]`

var (
	tokenABI  = mustParseABI(tokenABIJSON)
	escrowABI = mustParseABI(escrowABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
