package harmony

import (
	"github.com/harmonyconnect/harmony-sdk-go/sdk/chain"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/identity"
)

func chainGetOptions() chain.GetOptions { return chain.GetOptions{} }

func identityRequest(names ...string) identity.CreateRequest {
	return identity.CreateRequest{Name: names}
}
