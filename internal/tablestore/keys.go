package tablestore

import "fmt"

const (
	// sequences: seq:{table} -> last issued id
	keySeq = "seq:%s"

	// users: user:{id} -> json, user:email:{email} -> id, user:oauth:{provider}:{oauth_id} -> id
	keyUser      = "user:%d"
	keyUserEmail = "user:email:%s"
	keyUserOAuth = "user:oauth:%s:%s"
	keyUsers     = "users" // zset, score = id

	// products: product:{id} -> json, product:{id}:stock -> integer
	keyProduct      = "product:%d"
	keyProductStock = "product:%d:stock"
	keyProducts     = "products" // zset, score = id

	// orders: order:{id} -> json, order:{id}:lines -> list of json
	keyOrder      = "order:%s"
	keyOrderLines = "order:%s:lines"
	keyOrders     = "orders"         // zset, score = created_at unix ms
	keyUserOrders = "user:%d:orders" // zset, score = created_at unix ms

	// favorites:{user_id} -> hash product_id -> json
	keyFavorites = "favorites:%d"
)

func seqKey(table string) string { return fmt.Sprintf(keySeq, table) }

func userKey(id int64) string { return fmt.Sprintf(keyUser, id) }

func userEmailKey(email string) string { return fmt.Sprintf(keyUserEmail, email) }

func userOAuthKey(provider, oauthID string) string {
	return fmt.Sprintf(keyUserOAuth, provider, oauthID)
}

func productKey(id int64) string { return fmt.Sprintf(keyProduct, id) }

func productStockKey(id int64) string { return fmt.Sprintf(keyProductStock, id) }

func orderKey(id string) string { return fmt.Sprintf(keyOrder, id) }

func orderLinesKey(id string) string { return fmt.Sprintf(keyOrderLines, id) }

func userOrdersKey(userID int64) string { return fmt.Sprintf(keyUserOrders, userID) }

func favoritesKey(userID int64) string { return fmt.Sprintf(keyFavorites, userID) }
